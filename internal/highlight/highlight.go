// ABOUTME: Pure mapping of content plus offset-tagged annotations into display segments
// ABOUTME: Offsets are rune-based so CJK text highlights correctly

package highlight

import (
	"fmt"
	"sort"

	"github.com/paperai/polish-cli/internal/client"
)

// Kind tags a segment as plain text or an annotated range.
type Kind int

const (
	KindNormal Kind = iota
	KindAnnotated
)

// Segment is one renderable piece of the polished content. Joining the Text
// of all segments in order reproduces the input content exactly.
type Segment struct {
	Text     string
	Kind     Kind
	ChangeID string
	Color    string
	Type     string
	Status   string
}

// Segments splits content into normal and annotated segments. Annotations
// must carry disjoint, in-bounds [start, end) rune ranges; this is a backend
// invariant that is asserted here rather than repaired. The function has no
// side effects and yields identical output for identical input.
func Segments(content string, annotations []client.ChangeAnnotation) ([]Segment, error) {
	runes := []rune(content)

	sorted := make([]client.ChangeAnnotation, len(annotations))
	copy(sorted, annotations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position.Start < sorted[j].Position.Start
	})

	segments := make([]Segment, 0, 2*len(sorted)+1)
	cursor := 0
	for _, ann := range sorted {
		start, end := ann.Position.Start, ann.Position.End
		if start < 0 || end < start || end > len(runes) {
			return nil, fmt.Errorf("annotation %s range [%d, %d) out of bounds for content of %d runes", ann.ID, start, end, len(runes))
		}
		if start < cursor {
			return nil, fmt.Errorf("annotation %s range [%d, %d) overlaps a previous annotation", ann.ID, start, end)
		}
		if start > cursor {
			segments = append(segments, Segment{Text: string(runes[cursor:start])})
		}
		segments = append(segments, Segment{
			Text:     string(runes[start:end]),
			Kind:     KindAnnotated,
			ChangeID: ann.ID,
			Color:    ann.HighlightColor,
			Type:     ann.Type,
			Status:   ann.Status,
		})
		cursor = end
	}
	if cursor < len(runes) {
		segments = append(segments, Segment{Text: string(runes[cursor:])})
	}
	return segments, nil
}
