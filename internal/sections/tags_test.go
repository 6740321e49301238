package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/anchora/internal/model"
)

const promptDoc = `<greeting_rules>
Greet the user warmly.
</greeting_rules>
<tone title="Tone (friendly)">
Keep answers <b>short</b>.
</tone>
Trailing text.`

func TestTagParser_TopLevelSections(t *testing.T) {
	sections := NewTagParser().ParseSections(promptDoc)

	require.Len(t, sections, 2)

	greeting := sections[0]
	assert.Equal(t, "section-1", greeting.ID)
	assert.Equal(t, "greeting_rules", greeting.TagName)
	assert.Equal(t, "Greeting Rules", greeting.Title)
	assert.Equal(t, "\nGreet the user warmly.\n", greeting.Content)
	assert.Equal(t, greeting.Content, promptDoc[greeting.StartIndex:greeting.EndIndex])

	tone := sections[1]
	assert.Equal(t, "section-2", tone.ID)
	assert.Equal(t, "tone", tone.TagName)
	assert.Equal(t, "Tone (friendly)", tone.Title)
	assert.Equal(t, "\nKeep answers <b>short</b>.\n", tone.Content)
	assert.Equal(t, tone.Content, promptDoc[tone.StartIndex:tone.EndIndex])
}

func TestTagParser_NonOverlappingAndOrdered(t *testing.T) {
	sections := NewTagParser().ParseSections(promptDoc)
	for i := 1; i < len(sections); i++ {
		assert.LessOrEqual(t, sections[i-1].EndIndex, sections[i].StartIndex)
		assert.False(t, sections[i-1].Span().Overlaps(sections[i].Span()))
	}
	for _, s := range sections {
		assert.NoError(t, s.Span().Validate(len(promptDoc)))
	}
}

func TestTagParser_Attributes(t *testing.T) {
	doc := `<rules id="r1" name="House Rules">No spoilers.</rules>`
	sections := NewTagParser().ParseSections(doc)

	require.Len(t, sections, 1)
	assert.Equal(t, "r1", sections[0].ID)
	assert.Equal(t, "House Rules", sections[0].Title)
	assert.Equal(t, "No spoilers.", sections[0].Content)
}

func TestTagParser_VoidAndUnclosedElements(t *testing.T) {
	doc := "<intro>Hello<br>there</intro><dangling>never closed"
	sections := NewTagParser().ParseSections(doc)

	require.Len(t, sections, 1)
	assert.Equal(t, "intro", sections[0].TagName)
	assert.Equal(t, "Hello<br>there", sections[0].Content)
}

func TestTagParser_MultibyteOffsets(t *testing.T) {
	doc := "Préambule — <tono>Sé cálido.</tono>"
	sections := NewTagParser().ParseSections(doc)

	require.Len(t, sections, 1)
	assert.Equal(t, "Sé cálido.", doc[sections[0].StartIndex:sections[0].EndIndex])
}

func TestTagParser_PlainText(t *testing.T) {
	assert.Empty(t, NewTagParser().ParseSections("Greet the user warmly.\n\nAsk for their name."))
}

func TestStatic(t *testing.T) {
	src := Static{{ID: "a", Title: "A", StartIndex: 0, EndIndex: 3}}
	out := src.ParseSections("ignored")
	require.Len(t, out, 1)
	out[0].Title = "changed"
	assert.Equal(t, "A", src[0].Title, "callers must not be able to mutate the static list")
}

func TestParserFunc(t *testing.T) {
	p := ParserFunc(func(doc string) []model.Section {
		return []model.Section{{ID: "whole", StartIndex: 0, EndIndex: len(doc)}}
	})
	out := p.ParseSections("abc")
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].EndIndex)
}
