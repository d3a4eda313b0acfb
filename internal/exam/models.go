package exam

import "time"

// State is the lifecycle state of an exam. An exam is created in Draft,
// becomes Saved while edited, is Published to open it for enrolment, moves
// through StudentStarted/Review/ReviewStarted as students sit it and
// reviewers grade it, reaches Graded once scored and is finalized to
// GradedLogged or Archived. Aborted, Rejected and NoShow are exceptional
// terminal states set by external timing/event collaborators.
type State string

const (
	StateDraft          State = "DRAFT"
	StateSaved          State = "SAVED"
	StatePublished      State = "PUBLISHED"
	StateStudentStarted State = "STUDENT_STARTED"
	StateReview         State = "REVIEW"
	StateReviewStarted  State = "REVIEW_STARTED"
	StateGraded         State = "GRADED"
	StateGradedLogged   State = "GRADED_LOGGED"
	StateArchived       State = "ARCHIVED"
	StateAborted        State = "ABORTED"
	StateRejected       State = "REJECTED"
	StateNoShow         State = "NO_SHOW"
	StateDeleted        State = "DELETED"
)

// ExecutionType tells how an exam is taken. Printout exams have no
// continuous active window; availability comes from discrete examination
// dates instead.
type ExecutionType string

const (
	TypePublic   ExecutionType = "PUBLIC"
	TypePrivate  ExecutionType = "PRIVATE"
	TypePrintout ExecutionType = "PRINTOUT"
	TypeMaturity ExecutionType = "MATURITY"
	TypeFinal    ExecutionType = "FINAL"
)

// ReleaseType is the policy governing when an auto-evaluated grade becomes
// visible to the student. The empty value means no release type is selected.
type ReleaseType string

const (
	ReleaseNone            ReleaseType = ""
	ReleaseImmediate       ReleaseType = "IMMEDIATE"
	ReleaseGivenDate       ReleaseType = "GIVEN_DATE"
	ReleaseGivenAmountDays ReleaseType = "GIVEN_AMOUNT_DAYS"
	ReleaseAfterExamPeriod ReleaseType = "AFTER_EXAM_PERIOD"
	ReleaseNever           ReleaseType = "NEVER"
)

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type Enrolment struct {
	ID   string `json:"id"`
	User User   `json:"user"`
}

// Inspection assigns a user to review a specific exam. Inspectors are
// distinct from the exam's owners.
type Inspection struct {
	User User `json:"user"`
}

type ExaminationDate struct {
	Date time.Time `json:"date"`
}

type Grade struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type GradeScale struct {
	ID     int     `json:"id"`
	Grades []Grade `json:"grades"`
}

type GradeEvaluation struct {
	Grade      Grade   `json:"grade"`
	Percentage float64 `json:"percentage"`
}

// AutoEvaluationConfig holds the automatic grade-release configuration of
// one exam. GradeEvaluations carries one entry per grade in the scale and
// is kept sorted ascending by grade id.
type AutoEvaluationConfig struct {
	ReleaseType      ReleaseType       `json:"release_type"`
	ReleaseDate      *time.Time        `json:"release_date,omitempty"`
	AmountDays       int               `json:"amount_days,omitempty"`
	GradeEvaluations []GradeEvaluation `json:"grade_evaluations"`
}

type CreditType struct {
	Type string `json:"type"`
}

// EssayAnswer carries the reviewer-entered score and the committed
// evaluated score. EvaluatedScore stays nil until a reviewer commits one.
type EssayAnswer struct {
	ID             string   `json:"id"`
	Score          float64  `json:"score"`
	EvaluatedScore *float64 `json:"evaluated_score,omitempty"`
}

type SectionQuestion struct {
	ID          string       `json:"id"`
	MaxScore    float64      `json:"max_score"`
	EssayAnswer *EssayAnswer `json:"essay_answer,omitempty"`
}

type Course struct {
	Code       string      `json:"code,omitempty"`
	Credits    float64     `json:"credits"`
	GradeScale *GradeScale `json:"grade_scale,omitempty"`
}

// ActivityPeriod is a continuous window during which an exam can be taken.
type ActivityPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Exam struct {
	ID            string        `json:"id"`
	Name          string        `json:"name,omitempty"`
	State         State         `json:"state"`
	ExecutionType ExecutionType `json:"execution_type"`

	PeriodStart      *time.Time        `json:"period_start,omitempty"`
	PeriodEnd        *time.Time        `json:"period_end,omitempty"`
	ExaminationDates []ExaminationDate `json:"examination_dates,omitempty"`

	Owners      []User       `json:"owners,omitempty"`
	Enrolments  []Enrolment  `json:"enrolments,omitempty"`
	Inspections []Inspection `json:"inspections,omitempty"`

	Grade          *Grade      `json:"grade,omitempty"`
	Gradeless      bool        `json:"gradeless"`
	CreditType     *CreditType `json:"credit_type,omitempty"`
	AnswerLanguage *string     `json:"answer_language,omitempty"`
	CustomCredit   float64     `json:"custom_credit"`
	TotalScore     float64     `json:"total_score"`

	GradeScale           *GradeScale           `json:"grade_scale,omitempty"`
	AutoEvaluationConfig *AutoEvaluationConfig `json:"auto_evaluation_config,omitempty"`

	Questions []SectionQuestion `json:"questions,omitempty"`

	// Parent is the published exam a graded child was copied from; Course
	// is the owning course. Both serve as grade-scale fallbacks.
	Parent *Exam   `json:"parent,omitempty"`
	Course *Course `json:"course,omitempty"`

	// Children are per-participation copies of a published exam. Their
	// states drive the reviewable counts on the dashboard. On a child,
	// Creator is the sitter and Started/Ended bound the sitting.
	Children []*Exam    `json:"children,omitempty"`
	Creator  *User      `json:"creator,omitempty"`
	Started  *time.Time `json:"started,omitempty"`
	Ended    *time.Time `json:"ended,omitempty"`

	// Rev is the revision token of a collaborative exam, issued by the
	// external registry. Empty for local-only exams.
	Rev string `json:"rev,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// HasState reports whether the exam is in any of the given states.
func (e *Exam) HasState(states ...State) bool {
	for _, s := range states {
		if e.State == s {
			return true
		}
	}
	return false
}

// IsOwner reports whether the given user is one of the exam's owners.
func (e *Exam) IsOwner(userID string) bool {
	for _, o := range e.Owners {
		if o.ID == userID {
			return true
		}
	}
	return false
}

// IsInspector reports whether the given user is assigned to inspect this exam.
func (e *Exam) IsInspector(userID string) bool {
	for _, i := range e.Inspections {
		if i.User.ID == userID {
			return true
		}
	}
	return false
}

// EffectiveGradeScale resolves the scale used for grading: the exam's own
// scale, falling back to the parent exam's and finally the course's.
func (e *Exam) EffectiveGradeScale() *GradeScale {
	if e.GradeScale != nil {
		return e.GradeScale
	}
	if e.Parent != nil && e.Parent.GradeScale != nil {
		return e.Parent.GradeScale
	}
	if e.Course != nil {
		return e.Course.GradeScale
	}
	return nil
}
