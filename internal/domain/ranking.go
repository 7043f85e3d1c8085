package domain

import (
	"slices"

	"github.com/journeyreads/journey-server/internal/errors"
)

// MaxListSize is the number of books a journey holds. The whole comparison
// flow leans on this bound: a linear walk from the weakest item is at most
// three questions, so a binary search would buy nothing and would force the
// author to compare against non-adjacent books.
const MaxListSize = 4

// MaxNoteLength bounds the free-text note attached to a list item.
const MaxNoteLength = 300

// Comparison asks the author to choose between the candidate and the
// existing item at Pointer. Index 0 is the most preferred (first to read)
// position throughout; insertion always starts against the last, weakest
// item and walks toward the front.
type Comparison struct {
	CandidateID string `json:"candidate_id"`
	ExistingID  string `json:"existing_id"`
	Pointer     int    `json:"pointer"`
}

// Placement is the outcome of an insertion step: either the next comparison
// to put to the author, or the index the candidate belongs at.
type Placement struct {
	Compare  *Comparison `json:"compare,omitempty"`
	InsertAt int         `json:"insert_at"`
	Done     bool        `json:"done"`
}

// BeginInsertion starts inserting candidate into list (ordered book IDs,
// most preferred first). An empty list needs no comparison; otherwise the
// first question pits the candidate against the last item.
func BeginInsertion(candidate string, list []string) (Placement, error) {
	if candidate == "" {
		return Placement{}, errors.Validation("candidate book id is required")
	}
	if len(list) >= MaxListSize {
		return Placement{}, errors.ListFull("a journey holds at most four books")
	}
	if slices.Contains(list, candidate) {
		return Placement{}, errors.Validation("book is already in the list")
	}
	if len(list) == 0 {
		return Placement{InsertAt: 0, Done: true}, nil
	}
	last := len(list) - 1
	return Placement{
		Compare: &Comparison{CandidateID: candidate, ExistingID: list[last], Pointer: last},
	}, nil
}

// ResolveComparison advances the insertion after the author chose a side.
// candidatePreferred means the candidate should be read before the item at
// pointer: the walk moves one position earlier, or finishes at index 0 once
// the candidate has beaten everything. Otherwise the candidate lands
// immediately after the item it lost to.
func ResolveComparison(candidate string, list []string, pointer int, candidatePreferred bool) (Placement, error) {
	if candidate == "" {
		return Placement{}, errors.Validation("candidate book id is required")
	}
	if len(list) == 0 || len(list) > MaxListSize {
		return Placement{}, errors.OutOfRangef("cannot compare against a list of %d items", len(list))
	}
	if pointer < 0 || pointer >= len(list) {
		return Placement{}, errors.OutOfRangef("comparison pointer %d outside list of %d items", pointer, len(list))
	}

	if !candidatePreferred {
		return Placement{InsertAt: pointer + 1, Done: true}, nil
	}
	if pointer == 0 {
		return Placement{InsertAt: 0, Done: true}, nil
	}
	return Placement{
		Compare: &Comparison{CandidateID: candidate, ExistingID: list[pointer-1], Pointer: pointer - 1},
	}, nil
}

// InsertAt places candidate at index, shifting later items down. The input
// slice is not modified. Inserting into a full list fails and leaves the
// caller's list untouched.
func InsertAt(list []string, candidate string, index int) ([]string, error) {
	if candidate == "" {
		return nil, errors.Validation("candidate book id is required")
	}
	if len(list) >= MaxListSize {
		return nil, errors.ListFull("a journey holds at most four books")
	}
	if index < 0 || index > len(list) {
		return nil, errors.OutOfRangef("insert index %d outside list of %d items", index, len(list))
	}
	if slices.Contains(list, candidate) {
		return nil, errors.Validation("book is already in the list")
	}

	out := make([]string, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, candidate)
	out = append(out, list[index:]...)
	return out, nil
}

// Remove deletes the item at index, shifting later items up. The input
// slice is not modified.
func Remove(list []string, index int) ([]string, error) {
	if index < 0 || index >= len(list) {
		return nil, errors.OutOfRangef("remove index %d outside list of %d items", index, len(list))
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return out, nil
}
