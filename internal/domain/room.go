package domain

import "time"

type RoomID string

type RoomStatus string

const (
	RoomPending   RoomStatus = "pending"
	RoomWaiting   RoomStatus = "waiting"
	RoomActive    RoomStatus = "active"
	RoomCompleted RoomStatus = "completed"
	RoomCancelled RoomStatus = "cancelled"
	RoomRejected  RoomStatus = "rejected"
)

// DefaultRoleSwitchWindow is how long one side interviews before roles swap.
const DefaultRoleSwitchWindow = 45 * time.Minute

const (
	MinRating = 1
	MaxRating = 5
)

var validRoomTransitions = map[RoomStatus][]RoomStatus{
	RoomPending: {RoomWaiting, RoomActive, RoomCancelled, RoomRejected},
	RoomWaiting: {RoomActive, RoomCancelled, RoomRejected},
	RoomActive:  {RoomCompleted},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	for _, allowed := range validRoomTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RoomStatus) Terminal() bool {
	switch s {
	case RoomCompleted, RoomCancelled, RoomRejected:
		return true
	}
	return false
}

type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleInterviewee Role = "interviewee"
)

func (r Role) Opposite() Role {
	if r == RoleInterviewer {
		return RoleInterviewee
	}
	return RoleInterviewer
}

// Participant is a user's seat in a room. Joined tracks whether the user has
// performed the join call at least once.
type Participant struct {
	UserID UserID `json:"userId"`
	Role   Role   `json:"role"`
	Joined bool   `json:"joined"`
}

type Feedback struct {
	FromUser    UserID    `json:"fromUser"`
	ToUser      UserID    `json:"toUser"`
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type Report struct {
	ReporterID     UserID    `json:"reporterId"`
	ReportedUserID UserID    `json:"reportedUserId"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Room struct {
	ID                 RoomID            `json:"roomId"`
	CreatedBy          UserID            `json:"createdBy"`
	Participants       []Participant     `json:"participants"`
	Domain             string            `json:"domain"`
	SelectedQuestions  []QuestionSummary `json:"selectedQuestions"`
	Status             RoomStatus        `json:"status"`
	CreatedAt          time.Time         `json:"createdAt"`
	StartTime          time.Time         `json:"startTime,omitzero"`
	EndTime            time.Time         `json:"endTime,omitzero"`
	RoleSwitchDeadline time.Time         `json:"roleSwitchDeadline,omitzero"`
	RoleSwitches       int               `json:"roleSwitches"`
	Feedback           []Feedback        `json:"feedback"`
	Reports            []Report          `json:"reports"`
}

// Participant returns the seat held by uid.
func (r *Room) Participant(uid UserID) (*Participant, bool) {
	for i := range r.Participants {
		if r.Participants[i].UserID == uid {
			return &r.Participants[i], true
		}
	}
	return nil, false
}

// Other returns the participant that is not uid.
func (r *Room) Other(uid UserID) (*Participant, bool) {
	if _, ok := r.Participant(uid); !ok {
		return nil, false
	}
	for i := range r.Participants {
		if r.Participants[i].UserID != uid {
			return &r.Participants[i], true
		}
	}
	return nil, false
}

func (r *Room) JoinedCount() int {
	n := 0
	for _, p := range r.Participants {
		if p.Joined {
			n++
		}
	}
	return n
}

// SwapRoles exchanges interviewer and interviewee between the two seats.
func (r *Room) SwapRoles() {
	for i := range r.Participants {
		r.Participants[i].Role = r.Participants[i].Role.Opposite()
	}
	r.RoleSwitches++
}

// RoleOf returns uid's current role.
func (r *Room) RoleOf(uid UserID) Role {
	if p, ok := r.Participant(uid); ok {
		return p.Role
	}
	return ""
}

func (r *Room) Clone() Room {
	out := *r
	out.Participants = append([]Participant(nil), r.Participants...)
	out.SelectedQuestions = CloneQuestions(r.SelectedQuestions)
	out.Feedback = append([]Feedback(nil), r.Feedback...)
	out.Reports = append([]Report(nil), r.Reports...)
	return out
}
