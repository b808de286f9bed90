// ABOUTME: Tests for the annotation segmenter
// ABOUTME: Covers reconstruction, rune offsets, and invariant violations

package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperai/polish-cli/internal/client"
)

func ann(id string, start, end int) client.ChangeAnnotation {
	return client.ChangeAnnotation{
		ID:       id,
		Type:     "grammar",
		Status:   client.AnnotationPending,
		Position: client.Position{Start: start, End: end},
	}
}

func joined(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestSegments_NoAnnotations(t *testing.T) {
	segments, err := Segments("plain text", nil)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, KindNormal, segments[0].Kind)
	assert.Equal(t, "plain text", segments[0].Text)
}

func TestSegments_ReconstructsContent(t *testing.T) {
	content := "The quick brown fox jumps over the lazy dog"
	annotations := []client.ChangeAnnotation{
		ann("c-1", 4, 9),
		ann("c-2", 16, 19),
		ann("c-3", 35, 39),
	}

	segments, err := Segments(content, annotations)
	require.NoError(t, err)
	assert.Equal(t, content, joined(segments))

	var annotated []string
	for _, s := range segments {
		if s.Kind == KindAnnotated {
			annotated = append(annotated, s.Text)
		}
	}
	assert.Equal(t, []string{"quick", "fox", "lazy"}, annotated)
}

func TestSegments_AdjacentAnnotations(t *testing.T) {
	segments, err := Segments("abcdef", []client.ChangeAnnotation{
		ann("c-1", 0, 3),
		ann("c-2", 3, 6),
	})
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "abc", segments[0].Text)
	assert.Equal(t, "def", segments[1].Text)
}

func TestSegments_UnsortedInputHandled(t *testing.T) {
	content := "one two three"
	segments, err := Segments(content, []client.ChangeAnnotation{
		ann("c-2", 8, 13),
		ann("c-1", 0, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, content, joined(segments))
	assert.Equal(t, "c-1", segments[0].ChangeID)
}

func TestSegments_RuneOffsetsForCJK(t *testing.T) {
	content := "这是一个测试句子"
	segments, err := Segments(content, []client.ChangeAnnotation{ann("c-1", 4, 6)})
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, "这是一个", segments[0].Text)
	assert.Equal(t, "测试", segments[1].Text)
	assert.Equal(t, "句子", segments[2].Text)
	assert.Equal(t, content, joined(segments))
}

func TestSegments_CarriesAnnotationFields(t *testing.T) {
	a := ann("c-1", 0, 4)
	a.HighlightColor = "#ff0000"
	a.Type = "vocabulary"
	a.Status = client.AnnotationAccepted

	segments, err := Segments("word and more", []client.ChangeAnnotation{a})
	require.NoError(t, err)
	seg := segments[0]
	assert.Equal(t, KindAnnotated, seg.Kind)
	assert.Equal(t, "c-1", seg.ChangeID)
	assert.Equal(t, "#ff0000", seg.Color)
	assert.Equal(t, "vocabulary", seg.Type)
	assert.Equal(t, client.AnnotationAccepted, seg.Status)
}

func TestSegments_OutOfBounds(t *testing.T) {
	_, err := Segments("short", []client.ChangeAnnotation{ann("c-1", 0, 99)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of bounds")
}

func TestSegments_NegativeStart(t *testing.T) {
	_, err := Segments("short", []client.ChangeAnnotation{ann("c-1", -1, 2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of bounds")
}

func TestSegments_Overlap(t *testing.T) {
	_, err := Segments("overlapping text", []client.ChangeAnnotation{
		ann("c-1", 0, 6),
		ann("c-2", 4, 10),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlaps")
}

func TestSegments_Deterministic(t *testing.T) {
	content := "stable output expected"
	annotations := []client.ChangeAnnotation{ann("c-1", 0, 6), ann("c-2", 7, 13)}

	first, err := Segments(content, annotations)
	require.NoError(t, err)
	second, err := Segments(content, annotations)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
