package data

// Chapter is one upload unit: a scanned folder of ordered page images.
// Immutable once scanned.
type Chapter struct {
	Key    string // folder name, unique within a scan
	Number string // numeric label, may be decimal ("12", "12.5")
	Title  string // empty when the folder name carries no title
	Pages  []Page
}

// Page is a single image file within a chapter.
type Page struct {
	Path  string
	Index int // position within the chapter, zero-based
}

// OutcomeKind labels the terminal state of a chapter upload.
type OutcomeKind string

const (
	OutcomeSucceeded OutcomeKind = "succeeded"
	OutcomeSkipped   OutcomeKind = "skipped" // remote already has the chapter
	OutcomeFailed    OutcomeKind = "failed"
)

// UploadOutcome is the terminal record produced exactly once per chapter.
type UploadOutcome struct {
	Key  string
	Kind OutcomeKind
	Err  string // failure cause, empty unless Kind is OutcomeFailed
}

// GroupKind tags the closed set of group selections.
type GroupKind int

const (
	GroupUnofficial GroupKind = iota
	GroupOfficial
	GroupNamed
)

// GroupSelection says who a batch is uploaded as. Passed through to the
// finalize call untouched.
type GroupSelection struct {
	Kind   GroupKind
	Groups []string // group IDs, set only for GroupNamed
}

func Unofficial() GroupSelection { return GroupSelection{Kind: GroupUnofficial} }

func Official() GroupSelection { return GroupSelection{Kind: GroupOfficial} }

func Named(ids []string) GroupSelection {
	return GroupSelection{Kind: GroupNamed, Groups: ids}
}

// ChapterStatus is the live view of one chapter's upload. Progress is a
// fraction in [0, 1], non-decreasing, and hits exactly 1.0 only when the
// chapter reaches a terminal outcome.
type ChapterStatus struct {
	Status   string
	Progress float64
}
