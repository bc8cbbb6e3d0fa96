package pod

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleModule = `package Foo::Bar;

use strict;

=head1 NAME

Foo::Bar - does something

=head1 SYNOPSIS

    use Foo::Bar;
    Foo::Bar->new;

=head1 DESCRIPTION

Long prose about C<Foo::Bar>.

=head2 Details

More prose.

=head1 AUTHOR

Someone <someone@example.org>

=cut

sub new { bless {}, shift }
`

func TestParse_SkipsCodeOutsidePod(t *testing.T) {
	doc, err := Parse([]byte(sampleModule))
	require.NoError(t, err)

	for _, n := range doc.Nodes {
		if txt, ok := n.(*Text); ok {
			require.NotContains(t, txt.Content, "package Foo::Bar")
			require.NotContains(t, txt.Content, "sub new")
		}
	}
	require.Len(t, doc.Headings(), 5)
}

func TestParse_VerbatimKeepsIndentation(t *testing.T) {
	doc, err := Parse([]byte(sampleModule))
	require.NoError(t, err)

	var verbatim *Verbatim
	for _, n := range doc.Nodes {
		if v, ok := n.(*Verbatim); ok {
			verbatim = v
			break
		}
	}
	require.NotNil(t, verbatim)
	require.Equal(t, "    use Foo::Bar;\n    Foo::Bar->new;", verbatim.Content)
}

func TestParse_List(t *testing.T) {
	src := `=head1 FEATURES

=over 4

=item * First

Detail for first.

=item * Second

=back

Trailing prose.

=cut
`
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	var list *List
	for _, n := range doc.Nodes {
		if l, ok := n.(*List); ok {
			list = l
		}
	}
	require.NotNil(t, list)
	require.Len(t, list.Items, 2)
	require.Equal(t, "* First", list.Items[0].Marker)
	require.Len(t, list.Items[0].Content, 1)
	require.Empty(t, list.Items[1].Content)
}

func TestParse_MissingBackClosedByHeading(t *testing.T) {
	src := "=head1 A\n\n=over 4\n\n=item * x\n\n=head1 B\n\nprose\n"
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Headings(), 2)
}

func TestParseFile_MissingFileYieldsEmptyDocument(t *testing.T) {
	doc, err := ParseFile(filepath.Join(t.TempDir(), "nope.pm"))
	require.NoError(t, err)
	require.True(t, doc.Empty())
}

func TestNest_HeadingOwnsFollowingSiblings(t *testing.T) {
	doc, err := Parse([]byte(sampleModule))
	require.NoError(t, err)
	nested := Nest(doc)

	tops := nested.Headings()
	require.Len(t, tops, 4)
	require.Equal(t, []string{"NAME", "SYNOPSIS", "DESCRIPTION", "AUTHOR"},
		[]string{tops[0].Title, tops[1].Title, tops[2].Title, tops[3].Title})

	desc := tops[2]
	var sub *Heading
	for _, c := range desc.Children {
		if h, ok := c.(*Heading); ok {
			sub = h
		}
	}
	require.NotNil(t, sub)
	require.Equal(t, "Details", sub.Title)
	require.Equal(t, 2, sub.Level)
	require.Len(t, sub.Children, 1)
}

func TestNest_LevelSkipStillWellNested(t *testing.T) {
	src := "=head1 TOP\n\n=head3 DEEP\n\nprose\n\n=head1 NEXT\n"
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	nested := Nest(doc)

	tops := nested.Headings()
	require.Len(t, tops, 2)
	require.Equal(t, "TOP", tops[0].Title)
	inner, ok := tops[0].Children[0].(*Heading)
	require.True(t, ok)
	require.Equal(t, "DEEP", inner.Title)
}

func TestSerialize_RoundTripsStructure(t *testing.T) {
	doc, err := Parse([]byte(sampleModule))
	require.NoError(t, err)
	nested := Nest(doc)

	out, err := Serialize(nested)
	require.NoError(t, err)

	reparsed, err := Parse([]byte(out))
	require.NoError(t, err)
	require.Len(t, Nest(reparsed).Headings(), 4)
	require.Contains(t, out, "=head1 NAME\n\nFoo::Bar - does something\n")
	require.Contains(t, out, "=head2 Details\n")
}

func TestSerialize_EmptyDocument(t *testing.T) {
	out, err := Serialize(&Document{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSerialize_List(t *testing.T) {
	nodes := []Node{&List{Items: []*ListItem{
		{Marker: "*", Content: []Node{&Text{Content: "one"}}},
		{Marker: "*", Content: []Node{&Text{Content: "two"}}},
	}}}
	out, err := SerializeNodes(nodes)
	require.NoError(t, err)
	require.Equal(t, "=over 4\n\n=item *\n\none\n\n=item *\n\ntwo\n\n=back\n\n", out)
}

func TestParse_ForRegion(t *testing.T) {
	src := "=for html <b>bold</b>\n\n=head1 NAME\n\nX\n"
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	region, ok := doc.Nodes[0].(*Region)
	require.True(t, ok)
	require.Equal(t, "html", region.Name)
	require.Len(t, region.Children, 1)
	require.Equal(t, "<b>bold</b>", region.Children[0].(*Text).Content)
}

func TestParse_DeeplyNestedOverFails(t *testing.T) {
	var b strings.Builder
	b.WriteString("=head1 X\n\n")
	for range 100 {
		b.WriteString("=over 4\n\n")
	}
	_, err := Parse([]byte(b.String()))
	require.Error(t, err)
	require.Contains(t, err.Error(), "nesting")
}
