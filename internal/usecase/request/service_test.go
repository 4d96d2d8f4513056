package request

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"skillswap/internal/domain/request"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users map[uuid.UUID]user.User
	err   error
}

func (f *fakeUserRepo) Create(context.Context, user.User) error { return nil }
func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if f.err != nil {
		return user.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}
func (f *fakeUserRepo) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (f *fakeUserRepo) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (f *fakeUserRepo) Update(context.Context, user.User) error             { return nil }

type fakeSkillRepo struct {
	skills map[uuid.UUID]skill.Skill
}

func (f *fakeSkillRepo) Create(context.Context, skill.Skill) error { return nil }
func (f *fakeSkillRepo) GetByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	s, ok := f.skills[id]
	if !ok {
		return skill.Skill{}, skill.ErrNotFound
	}
	return s, nil
}
func (f *fakeSkillRepo) ListByOwner(context.Context, uuid.UUID) ([]skill.Skill, error) {
	return nil, nil
}
func (f *fakeSkillRepo) List(context.Context, skill.ListFilter) ([]skill.Skill, error) {
	return nil, nil
}
func (f *fakeSkillRepo) Update(context.Context, skill.Skill) error { return nil }
func (f *fakeSkillRepo) Delete(context.Context, uuid.UUID) error   { return nil }

type fakeRequestRepo struct {
	byID    map[uuid.UUID]request.ExchangeRequest
	created []request.ExchangeRequest
	updated int
	deleted int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: map[uuid.UUID]request.ExchangeRequest{}}
}

func (f *fakeRequestRepo) Create(_ context.Context, r request.ExchangeRequest) error {
	f.created = append(f.created, r)
	f.byID[r.ID] = r
	return nil
}
func (f *fakeRequestRepo) GetByID(_ context.Context, id uuid.UUID) (request.ExchangeRequest, error) {
	r, ok := f.byID[id]
	if !ok {
		return request.ExchangeRequest{}, request.ErrNotFound
	}
	return r, nil
}
func (f *fakeRequestRepo) ListByReceiver(context.Context, uuid.UUID, []request.Status) ([]request.ExchangeRequest, error) {
	return nil, nil
}
func (f *fakeRequestRepo) ListBySender(context.Context, uuid.UUID, []request.Status) ([]request.ExchangeRequest, error) {
	return nil, nil
}
func (f *fakeRequestRepo) Update(_ context.Context, id uuid.UUID, status request.Status, isRead bool) error {
	f.updated++
	r := f.byID[id]
	r.Status = status
	r.IsRead = isRead
	r.UpdatedAt = time.Now()
	f.byID[id] = r
	return nil
}
func (f *fakeRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted++
	delete(f.byID, id)
	return nil
}

type recordingDispatcher struct {
	newRequests []request.ExchangeRequest
	updates     []request.ExchangeRequest
}

func (d *recordingDispatcher) NotifyNewRequest(r request.ExchangeRequest) {
	d.newRequests = append(d.newRequests, r)
}
func (d *recordingDispatcher) NotifyUpdateRequest(r request.ExchangeRequest) {
	d.updates = append(d.updates, r)
}

type fixture struct {
	svc        *Service
	users      *fakeUserRepo
	skills     *fakeSkillRepo
	requests   *fakeRequestRepo
	dispatcher *recordingDispatcher

	u1, u2         user.User
	skillA, skillB skill.Skill
}

func newFixture() *fixture {
	u1 := user.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", Role: user.RoleUser}
	u2 := user.User{ID: uuid.New(), Name: "Bob", Email: "bob@example.com", Role: user.RoleUser}
	skillA := skill.Skill{ID: uuid.New(), Title: "Go", OwnerID: u1.ID, OwnerName: u1.Name}
	skillB := skill.Skill{ID: uuid.New(), Title: "Photography", OwnerID: u2.ID, OwnerName: u2.Name}

	users := &fakeUserRepo{users: map[uuid.UUID]user.User{u1.ID: u1, u2.ID: u2}}
	skills := &fakeSkillRepo{skills: map[uuid.UUID]skill.Skill{skillA.ID: skillA, skillB.ID: skillB}}
	requests := newFakeRequestRepo()
	dispatcher := &recordingDispatcher{}

	return &fixture{
		svc:        NewService(requests, skills, users, dispatcher),
		users:      users,
		skills:     skills,
		requests:   requests,
		dispatcher: dispatcher,
		u1:         u1, u2: u2,
		skillA: skillA, skillB: skillB,
	}
}

func (f *fixture) seedRequest(status request.Status) request.ExchangeRequest {
	r := request.ExchangeRequest{
		ID:             uuid.New(),
		Sender:         &request.Participant{ID: f.u1.ID, Name: f.u1.Name},
		Receiver:       &request.Participant{ID: f.u2.ID, Name: f.u2.Name},
		OfferedSkill:   request.SkillRef{ID: f.skillA.ID, Title: f.skillA.Title, OwnerID: f.u1.ID},
		RequestedSkill: request.SkillRef{ID: f.skillB.ID, Title: f.skillB.Title, OwnerID: f.u2.ID},
		Status:         status,
	}
	f.requests.byID[r.ID] = r
	return r
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()

	got, err := f.svc.Create(context.Background(), f.u1.ID, f.skillA.ID, f.skillB.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != request.StatusPending {
		t.Errorf("status = %s, want PENDING", got.Status)
	}
	if got.IsRead {
		t.Errorf("expected isRead=false on creation")
	}
	if got.Sender == nil || got.Sender.ID != f.u1.ID {
		t.Errorf("sender not resolved to u1")
	}
	if got.Receiver == nil || got.Receiver.ID != f.u2.ID {
		t.Errorf("receiver not resolved to requested skill owner")
	}
	if len(f.dispatcher.newRequests) != 1 {
		t.Fatalf("dispatcher invoked %d times, want 1", len(f.dispatcher.newRequests))
	}
	if f.dispatcher.newRequests[0].Receiver.ID != f.u2.ID {
		t.Errorf("notification addressed to %s, want receiver %s", f.dispatcher.newRequests[0].Receiver.ID, f.u2.ID)
	}
}

func TestCreate_SenderNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), uuid.New(), f.skillA.ID, f.skillB.ID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(f.requests.created) != 0 {
		t.Fatalf("request persisted despite failed validation")
	}
}

func TestCreate_NotSkillOwner(t *testing.T) {
	f := newFixture()

	// u2 tries to offer u1's skill.
	_, err := f.svc.Create(context.Background(), f.u2.ID, f.skillA.ID, f.skillB.ID)
	if !errors.Is(err, ErrNotSkillOwner) {
		t.Fatalf("expected ErrNotSkillOwner, got %v", err)
	}
	if len(f.requests.created) != 0 {
		t.Fatalf("request persisted despite ownership failure")
	}
	if len(f.dispatcher.newRequests) != 0 {
		t.Fatalf("dispatcher invoked on failed create")
	}
}

func TestCreate_MissingSkills(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name               string
		offered, requested uuid.UUID
		want               string
	}{
		{"offered missing", uuid.New(), f.skillB.ID, "offered skill"},
		{"requested missing", f.skillA.ID, uuid.New(), "requested skill"},
		{"both missing", uuid.New(), uuid.New(), "offered and requested skills"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.u1.ID, tc.offered, tc.requested)
			if !errors.Is(err, ErrSkillNotFound) {
				t.Fatalf("expected ErrSkillNotFound, got %v", err)
			}
			if got := err.Error(); !strings.Contains(got, tc.want) {
				t.Errorf("error %q does not report %q", got, tc.want)
			}
		})
	}
	if len(f.requests.created) != 0 {
		t.Fatalf("request persisted despite missing skills")
	}
}

func TestUpdate_ReceiverAccepts(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)

	accepted := request.StatusAccepted
	got, err := f.svc.Update(context.Background(), r.ID, Patch{Status: &accepted}, Actor{ID: f.u2.ID, Role: user.RoleUser})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != request.StatusAccepted {
		t.Errorf("status = %s, want ACCEPTED", got.Status)
	}
	if !got.IsRead {
		t.Errorf("expected isRead forced true on update")
	}
	if len(f.dispatcher.updates) != 1 {
		t.Fatalf("dispatcher invoked %d times, want 1", len(f.dispatcher.updates))
	}
	if f.dispatcher.updates[0].Sender.ID != f.u1.ID {
		t.Errorf("update notification must target the original sender")
	}
}

func TestUpdate_ReturnsPersistedRow(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)

	stale := f.requests.byID[r.ID].UpdatedAt

	accepted := request.StatusAccepted
	got, err := f.svc.Update(context.Background(), r.ID, Patch{Status: &accepted}, Actor{ID: f.u2.ID, Role: user.RoleUser})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	stored := f.requests.byID[r.ID]
	if !got.UpdatedAt.Equal(stored.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, stored row has %v", got.UpdatedAt, stored.UpdatedAt)
	}
	if got.UpdatedAt.Equal(stale) {
		t.Errorf("UpdatedAt not refreshed by the write")
	}
	if f.dispatcher.updates[0].UpdatedAt != got.UpdatedAt {
		t.Errorf("notification carried a different row than the caller received")
	}
}

func TestUpdate_ForcesIsReadDespitePatch(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)

	unread := false
	got, err := f.svc.Update(context.Background(), r.ID, Patch{IsRead: &unread}, Actor{ID: f.u2.ID, Role: user.RoleUser})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got.IsRead {
		t.Fatalf("isRead=false survived an update; every successful update marks the request read")
	}
}

func TestUpdate_NotReceiverNotAdmin(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)

	accepted := request.StatusAccepted
	_, err := f.svc.Update(context.Background(), r.ID, Patch{Status: &accepted}, Actor{ID: f.u1.ID, Role: user.RoleUser})
	if !errors.Is(err, ErrNotReceiver) {
		t.Fatalf("expected ErrNotReceiver, got %v", err)
	}
	if f.requests.updated != 0 {
		t.Fatalf("request mutated despite authorization failure")
	}
	if stored := f.requests.byID[r.ID]; stored.Status != request.StatusPending || stored.IsRead {
		t.Fatalf("stored request changed: %+v", stored)
	}
}

func TestUpdate_AdminAllowed(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)

	rejected := request.StatusRejected
	got, err := f.svc.Update(context.Background(), r.ID, Patch{Status: &rejected}, Actor{ID: uuid.New(), Role: user.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != request.StatusRejected {
		t.Errorf("status = %s, want REJECTED", got.Status)
	}
}

func TestUpdate_MissingRoleIsNonAdmin(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)

	accepted := request.StatusAccepted
	_, err := f.svc.Update(context.Background(), r.ID, Patch{Status: &accepted}, Actor{ID: uuid.New()})
	if !errors.Is(err, ErrNotReceiver) {
		t.Fatalf("expected ErrNotReceiver for roleless actor, got %v", err)
	}
}

func TestUpdate_IllegalTransition(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusRejected)

	done := request.StatusDone
	_, err := f.svc.Update(context.Background(), r.ID, Patch{Status: &done}, Actor{ID: f.u2.ID, Role: user.RoleUser})
	if !errors.Is(err, request.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if f.requests.updated != 0 {
		t.Fatalf("illegal transition persisted")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()

	accepted := request.StatusAccepted
	_, err := f.svc.Update(context.Background(), uuid.New(), Patch{Status: &accepted}, Actor{ID: f.u2.ID, Role: user.RoleUser})
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRemove_SenderDeletes(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)

	got, err := f.svc.Remove(context.Background(), f.u1.ID, r.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != r.ID {
		t.Errorf("expected the deleted record back")
	}
	if f.requests.deleted != 1 {
		t.Fatalf("delete called %d times, want 1", f.requests.deleted)
	}
}

func TestRemove_NeitherSenderNorAdmin(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)

	u3 := user.User{ID: uuid.New(), Name: "Mallory", Role: user.RoleUser}
	f.users.users[u3.ID] = u3

	_, err := f.svc.Remove(context.Background(), u3.ID, r.ID)
	if !errors.Is(err, ErrNotSender) {
		t.Fatalf("expected ErrNotSender, got %v", err)
	}
	if f.requests.deleted != 0 {
		t.Fatalf("repository delete called despite Forbidden")
	}
}

func TestRemove_AdminAllowed(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)

	admin := user.User{ID: uuid.New(), Name: "Root", Role: user.RoleAdmin}
	f.users.users[admin.ID] = admin

	if _, err := f.svc.Remove(context.Background(), admin.ID, r.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.requests.deleted != 1 {
		t.Fatalf("delete called %d times, want 1", f.requests.deleted)
	}
}

func TestRemove_CorruptRequest(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)
	r.Sender = nil
	f.requests.byID[r.ID] = r

	_, err := f.svc.Remove(context.Background(), f.u1.ID, r.ID)
	if !errors.Is(err, ErrCorruptRequest) {
		t.Fatalf("expected ErrCorruptRequest, got %v", err)
	}
	if errors.Is(err, ErrNotSender) {
		t.Fatalf("corrupt-record failure must be distinct from the authorization failure")
	}
	if f.requests.deleted != 0 {
		t.Fatalf("corrupt request was deleted")
	}
}

func TestRemove_UserLookupFailure(t *testing.T) {
	f := newFixture()
	r := f.seedRequest(request.StatusPending)
	f.users.err = errors.New("connection reset")

	_, err := f.svc.Remove(context.Background(), f.u1.ID, r.ID)
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected wrapped ErrInternal, got %v", err)
	}
	if strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("dependency error leaked: %v", err)
	}
}
