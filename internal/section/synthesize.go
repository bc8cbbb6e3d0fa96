package section

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/podreadme/internal/fileset"
	"git.home.luguber.info/inful/podreadme/internal/metadata"
	"git.home.luguber.info/inful/podreadme/internal/pod"
)

// Inputs is the metadata snapshot the synthesizers draw on.
type Inputs struct {
	Dist  metadata.Distribution
	Files *fileset.Set
}

// Generator produces a synthetic section subtree, or nil when the inputs
// give it nothing to say.
type Generator func(in Inputs) []pod.Node

// generators is the closed table of synthesizable section names. Lookups
// happen once, at configuration time, so the set of recognized names is
// explicit rather than discovered by dispatch.
var generators = map[string]Generator{
	"version":      generateVersion,
	"installation": generateInstallation,
	"requirements": generateRequirements,
}

// GeneratorFor returns the generator registered for a canonical section
// name, if any. Names are folded the way literal requests are.
func GeneratorFor(name string) (Generator, bool) {
	g, ok := generators[strings.ToLower(normalizeTitle(name))]
	return g, ok
}

func generateVersion(in Inputs) []pod.Node {
	if in.Dist.Version == "" {
		return nil
	}
	return []pod.Node{&pod.Heading{
		Level:    1,
		Title:    "VERSION",
		Children: []pod.Node{&pod.Text{Content: fmt.Sprintf("version %s", in.Dist.Version)}},
	}}
}

func generateInstallation(in Inputs) []pod.Node {
	module := in.Dist.Module()
	if module == "" {
		return nil
	}
	if in.Files == nil {
		in.Files = &fileset.Set{}
	}

	children := []pod.Node{
		&pod.Text{Content: fmt.Sprintf("The latest release of %s can be installed from CPAN:", module)},
		&pod.Verbatim{Content: fmt.Sprintf("    cpanm %s", module)},
		&pod.Text{Content: "If you have downloaded a release tarball, extract it and install from inside the unpacked directory:"},
		&pod.Verbatim{Content: "    cpanm ."},
	}

	if descriptor, ok := in.Files.BuildDescriptor(); ok {
		children = append(children,
			&pod.Text{Content: "To build and install manually instead, run:"},
			&pod.Verbatim{Content: manualSteps(descriptor)},
		)
	}

	children = append(children,
		&pod.Text{Content: "When working from a source checkout managed by Dist::Zilla:"},
		&pod.Verbatim{Content: "    dzil install"},
	)

	if install, ok := in.Files.InstallFile(); ok {
		children = append(children,
			&pod.Text{Content: fmt.Sprintf("See the F<%s> file included with this distribution for further details.", install)})
	} else {
		children = append(children,
			&pod.Text{Content: "See L<perlmodinstall> for general advice on installing Perl modules."})
	}

	return []pod.Node{&pod.Heading{Level: 1, Title: "INSTALLATION", Children: children}}
}

// manualSteps derives the manual build commands from the descriptor name:
// make-family commands for a Makefile-style descriptor, Build.PL's bundled
// build tool otherwise.
func manualSteps(descriptor string) string {
	if strings.HasPrefix(descriptor, "Makefile") {
		return strings.Join([]string{
			"    perl " + descriptor,
			"    make",
			"    make test",
			"    make install",
		}, "\n")
	}
	return strings.Join([]string{
		"    perl " + descriptor,
		"    ./Build",
		"    ./Build test",
		"    ./Build install",
	}, "\n")
}

func generateRequirements(in Inputs) []pod.Node {
	if len(in.Dist.Requires) == 0 {
		return nil
	}

	names := make([]string, 0, len(in.Dist.Requires))
	for name := range in.Dist.Requires {
		names = append(names, name)
	}
	collate.New(language.Und).SortStrings(names)

	items := make([]*pod.ListItem, 0, len(names))
	for _, name := range names {
		text := fmt.Sprintf("L<%s>", name)
		if v := in.Dist.Requires[name]; v != "" {
			text = fmt.Sprintf("%s, version %s or later", text, v)
		}
		items = append(items, &pod.ListItem{Marker: "*", Content: []pod.Node{&pod.Text{Content: text}}})
	}

	children := []pod.Node{
		&pod.Text{Content: fmt.Sprintf("%s requires the following modules at runtime:", in.Dist.Module())},
		&pod.List{Items: items},
	}
	return []pod.Node{&pod.Heading{Level: 1, Title: "REQUIREMENTS", Children: children}}
}
