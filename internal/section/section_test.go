package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/podreadme/internal/fileset"
	"git.home.luguber.info/inful/podreadme/internal/metadata"
	"git.home.luguber.info/inful/podreadme/internal/pod"
)

func headings(titles ...string) []*pod.Heading {
	out := make([]*pod.Heading, 0, len(titles))
	for _, t := range titles {
		out = append(out, &pod.Heading{Level: 1, Title: t})
	}
	return out
}

func mustRequest(t *testing.T, raw string) Request {
	t.Helper()
	req, err := ParseRequest(raw)
	require.NoError(t, err)
	return req
}

func TestMatch_LiteralCaseInsensitive(t *testing.T) {
	hs := headings("Name", "SYNOPSIS")
	require.Equal(t, hs[0], Match(hs, mustRequest(t, "NAME")))
	require.Equal(t, hs[1], Match(hs, mustRequest(t, "synopsis")))
}

func TestMatch_LiteralIgnoresSurroundingWhitespace(t *testing.T) {
	hs := headings("  NAME  ", "COPYRIGHT   AND   LICENSE")
	require.Equal(t, hs[0], Match(hs, mustRequest(t, "name")))
	require.Equal(t, hs[1], Match(hs, mustRequest(t, "copyright and license")))
}

func TestMatch_PatternFullTitleOnly(t *testing.T) {
	hs := headings("COPYRIGHT AND LICENSE")
	require.Nil(t, Match(hs, mustRequest(t, "/COPYRIGHT/")), "substring must not match")
	require.NotNil(t, Match(hs, mustRequest(t, "/copyright.*/")))
	require.NotNil(t, Match(hs, mustRequest(t, "/COPYRIGHT AND LICENSE/")))
}

func TestMatch_FirstOccurrenceWins(t *testing.T) {
	first := &pod.Heading{Level: 1, Title: "NOTES", Children: []pod.Node{&pod.Text{Content: "first"}}}
	second := &pod.Heading{Level: 1, Title: "NOTES", Children: []pod.Node{&pod.Text{Content: "second"}}}
	got := Match([]*pod.Heading{first, second}, mustRequest(t, "notes"))
	require.Equal(t, first, got)
}

func TestMatch_MissReturnsNil(t *testing.T) {
	require.Nil(t, Match(headings("NAME"), mustRequest(t, "SYNOPSIS")))
}

func TestParseRequest_BadPatternFailsFast(t *testing.T) {
	_, err := ParseRequest("/([unclosed/")
	require.Error(t, err)
	require.Contains(t, err.Error(), "section pattern")
}

func TestAssemble_OutputOrderIsConfigurationOrder(t *testing.T) {
	doc := &pod.Document{Nodes: []pod.Node{
		&pod.Heading{Level: 1, Title: "NAME", Children: []pod.Node{&pod.Text{Content: "n"}}},
		&pod.Heading{Level: 1, Title: "SYNOPSIS", Children: []pod.Node{&pod.Text{Content: "s"}}},
	}}
	a := NewAssembler([]Request{mustRequest(t, "synopsis"), mustRequest(t, "name")}, true)
	res := a.Assemble(doc, Inputs{})

	require.Equal(t, 2, res.Matched)
	require.Equal(t, "SYNOPSIS", res.Nodes[0].(*pod.Heading).Title)
	require.Equal(t, "NAME", res.Nodes[1].(*pod.Heading).Title)
}

func TestAssemble_MissWithFallbackDisabledIsSilent(t *testing.T) {
	doc := &pod.Document{}
	a := NewAssembler([]Request{mustRequest(t, "version")}, false)
	res := a.Assemble(doc, Inputs{Dist: metadata.Distribution{Version: "1.0"}})
	require.Empty(t, res.Nodes)
}

func TestAssemble_SynthesizesOnMiss(t *testing.T) {
	doc := &pod.Document{}
	a := NewAssembler([]Request{mustRequest(t, "VERSION")}, true)
	res := a.Assemble(doc, Inputs{Dist: metadata.Distribution{Version: "2.5"}})

	require.Equal(t, 1, res.Synthesized)
	h := res.Nodes[0].(*pod.Heading)
	require.Equal(t, "VERSION", h.Title)
	require.Equal(t, "version 2.5", h.Children[0].(*pod.Text).Content)
}

func TestAssemble_DocumentHeadingBeatsSynthesizer(t *testing.T) {
	doc := &pod.Document{Nodes: []pod.Node{
		&pod.Heading{Level: 1, Title: "VERSION", Children: []pod.Node{&pod.Text{Content: "hand-written"}}},
	}}
	a := NewAssembler([]Request{mustRequest(t, "version")}, true)
	res := a.Assemble(doc, Inputs{Dist: metadata.Distribution{Version: "2.5"}})

	require.Equal(t, 1, res.Matched)
	require.Zero(t, res.Synthesized)
	require.Equal(t, "hand-written", res.Nodes[0].(*pod.Heading).Children[0].(*pod.Text).Content)
}

func TestAssemble_UnrecognizedNameContributesNothing(t *testing.T) {
	a := NewAssembler([]Request{mustRequest(t, "acknowledgements")}, true)
	res := a.Assemble(&pod.Document{}, Inputs{})
	require.Empty(t, res.Nodes)
}

func TestGenerateRequirements_SortedWithConstraintAnnotations(t *testing.T) {
	in := Inputs{Dist: metadata.Distribution{
		Name:     "Foo-Bar",
		Requires: map[string]string{"Foo::Bar": "1.2", "Baz": ""},
	}}
	nodes := generateRequirements(in)
	require.Len(t, nodes, 1)

	h := nodes[0].(*pod.Heading)
	require.Equal(t, "REQUIREMENTS", h.Title)
	list := h.Children[1].(*pod.List)
	require.Len(t, list.Items, 2)
	require.Equal(t, "L<Baz>", list.Items[0].Content[0].(*pod.Text).Content)
	require.Equal(t, "L<Foo::Bar>, version 1.2 or later", list.Items[1].Content[0].(*pod.Text).Content)
}

func TestGenerateRequirements_EmptyDependencySet(t *testing.T) {
	require.Nil(t, generateRequirements(Inputs{Dist: metadata.Distribution{Name: "X", Requires: map[string]string{}}}))
	require.Nil(t, generateRequirements(Inputs{Dist: metadata.Distribution{Name: "X"}}))
}

func TestGenerateInstallation_NoDescriptorOmitsManualStep(t *testing.T) {
	in := Inputs{Dist: metadata.Distribution{Name: "Foo-Bar"}, Files: &fileset.Set{}}
	nodes := generateInstallation(in)
	out, err := pod.SerializeNodes(nodes)
	require.NoError(t, err)

	require.Contains(t, out, "cpanm Foo::Bar")
	require.Contains(t, out, "cpanm .")
	require.NotContains(t, out, "make install")
	require.NotContains(t, out, "./Build install")
	require.Contains(t, out, "L<perlmodinstall>")
}

func TestGenerateInstallation_MakefileDescriptor(t *testing.T) {
	in := Inputs{
		Dist:  metadata.Distribution{Name: "Foo-Bar"},
		Files: &fileset.Set{Files: []fileset.File{{Name: "Makefile.PL"}}},
	}
	out, err := pod.SerializeNodes(generateInstallation(in))
	require.NoError(t, err)
	require.Contains(t, out, "perl Makefile.PL")
	require.Contains(t, out, "make test")
}

func TestGenerateInstallation_BuildDescriptorUsesBuildTool(t *testing.T) {
	in := Inputs{
		Dist:  metadata.Distribution{Name: "Foo-Bar"},
		Files: &fileset.Set{Files: []fileset.File{{Name: "Build.PL"}}},
	}
	out, err := pod.SerializeNodes(generateInstallation(in))
	require.NoError(t, err)
	require.Contains(t, out, "perl Build.PL")
	require.Contains(t, out, "./Build test")
	require.NotContains(t, out, "make test")
}

func TestGenerateInstallation_InstallFilePointer(t *testing.T) {
	in := Inputs{
		Dist:  metadata.Distribution{Name: "Foo-Bar"},
		Files: &fileset.Set{Files: []fileset.File{{Name: "INSTALL.md"}}},
	}
	out, err := pod.SerializeNodes(generateInstallation(in))
	require.NoError(t, err)
	require.Contains(t, out, "F<INSTALL.md>")
	require.NotContains(t, out, "perlmodinstall")
}

func TestGenerateVersion_NoVersionYieldsNothing(t *testing.T) {
	require.Nil(t, generateVersion(Inputs{}))
}

func TestGeneratorFor_ClosedTable(t *testing.T) {
	for _, name := range []string{"version", "Installation", "REQUIREMENTS"} {
		_, ok := GeneratorFor(name)
		require.True(t, ok, name)
	}
	_, ok := GeneratorFor("recent changes")
	require.False(t, ok, "recent-changes is a separately invoked synthesizer")
}
