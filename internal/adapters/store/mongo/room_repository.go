package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/peerview/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const roomsCollection = "rooms"

type RoomRepository struct {
	coll *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{coll: db.Collection(roomsCollection)}
}

type roomDoc struct {
	ID                 string                   `bson:"_id"`
	CreatedBy          string                   `bson:"created_by"`
	Participants       []participantDoc         `bson:"participants"`
	Domain             string                   `bson:"domain"`
	SelectedQuestions  []domain.QuestionSummary `bson:"selected_questions"`
	Status             string                   `bson:"status"`
	CreatedAt          time.Time                `bson:"created_at"`
	StartTime          *time.Time               `bson:"start_time,omitempty"`
	EndTime            *time.Time               `bson:"end_time,omitempty"`
	RoleSwitchDeadline *time.Time               `bson:"role_switch_deadline,omitempty"`
	RoleSwitches       int                      `bson:"role_switches"`
	Feedback           []domain.Feedback        `bson:"feedback"`
	Reports            []domain.Report          `bson:"reports"`
	UpdatedAt          time.Time                `bson:"updated_at"`
}

type participantDoc struct {
	UserID string `bson:"user_id"`
	Role   string `bson:"role"`
}

func toRoomDoc(r domain.Room, now time.Time) roomDoc {
	doc := roomDoc{
		ID:                 string(r.ID),
		CreatedBy:          string(r.CreatedBy),
		Domain:             r.Domain,
		SelectedQuestions:  r.SelectedQuestions,
		Status:             string(r.Status),
		CreatedAt:          r.CreatedAt.UTC(),
		StartTime:          optionalTime(r.StartTime),
		EndTime:            optionalTime(r.EndTime),
		RoleSwitchDeadline: optionalTime(r.RoleSwitchDeadline),
		RoleSwitches:       r.RoleSwitches,
		Feedback:           r.Feedback,
		Reports:            r.Reports,
		UpdatedAt:          now.UTC(),
	}
	for _, p := range r.Participants {
		doc.Participants = append(doc.Participants, participantDoc{UserID: string(p.UserID), Role: string(p.Role)})
	}
	return doc
}

func fromRoomDoc(doc roomDoc) domain.Room {
	r := domain.Room{
		ID:                domain.RoomID(doc.ID),
		CreatedBy:         domain.UserID(doc.CreatedBy),
		Domain:            doc.Domain,
		SelectedQuestions: doc.SelectedQuestions,
		Status:            domain.RoomStatus(doc.Status),
		CreatedAt:         doc.CreatedAt,
		RoleSwitches:      doc.RoleSwitches,
		Feedback:          doc.Feedback,
		Reports:           doc.Reports,
	}
	if doc.StartTime != nil {
		r.StartTime = *doc.StartTime
	}
	if doc.EndTime != nil {
		r.EndTime = *doc.EndTime
	}
	if doc.RoleSwitchDeadline != nil {
		r.RoleSwitchDeadline = *doc.RoleSwitchDeadline
	}
	for _, p := range doc.Participants {
		r.Participants = append(r.Participants, domain.Participant{UserID: domain.UserID(p.UserID), Role: domain.Role(p.Role), Joined: true})
	}
	return r
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

// PersistRoomSnapshot replaces the archived room document.
func (r *RoomRepository) PersistRoomSnapshot(ctx context.Context, room domain.Room) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toRoomDoc(room, time.Now())
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("persist room: %w", err)
	}
	return nil
}

func (r *RoomRepository) FindByID(ctx context.Context, roomID domain.RoomID) (domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roomDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": string(roomID)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, fmt.Errorf("find room: %w", err)
	}
	return fromRoomDoc(doc), nil
}

// EnsureIndexes creates necessary indexes on the rooms collection.
func (r *RoomRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "participants.user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
