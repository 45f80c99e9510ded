package query

import (
	"context"
	"errors"
	"io"
	"sort"

	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/matching"
	"github.com/lora213/buddyhub/internal/domain/notification"
	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
	"github.com/lora213/buddyhub/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

type fakeUserRepo struct {
	users map[shared.UserID]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[shared.UserID]*user.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id shared.UserID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email shared.Email) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) ListMatchable(_ context.Context, exclude shared.UserID) ([]shared.UserID, error) {
	ids := make([]shared.UserID, 0, len(r.users))
	for id, u := range r.users {
		if id != exclude && u.Status.IsMatchable() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeUserRepo) GetPublicProfiles(_ context.Context, ids []shared.UserID) (map[shared.UserID]user.PublicProfile, error) {
	profiles := make(map[shared.UserID]user.PublicProfile, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			profiles[id] = u.PublicProfile()
		}
	}
	return profiles, nil
}

type fakeRubricRepo struct {
	scores   map[shared.UserID]rubric.ScoreSet
	failFor  map[shared.UserID]bool
	getCalls int
}

func newFakeRubricRepo() *fakeRubricRepo {
	return &fakeRubricRepo{
		scores:  make(map[shared.UserID]rubric.ScoreSet),
		failFor: make(map[shared.UserID]bool),
	}
}

func (r *fakeRubricRepo) GetByUserID(_ context.Context, userID shared.UserID) (rubric.ScoreSet, error) {
	r.getCalls++
	if r.failFor[userID] {
		return nil, errors.New("scores unavailable")
	}
	return r.scores[userID], nil
}

func (r *fakeRubricRepo) ReplaceCategory(_ context.Context, userID shared.UserID, category rubric.Category, scores []rubric.RubricScore) error {
	kept := make(rubric.ScoreSet, 0)
	for _, s := range r.scores[userID] {
		if s.Category != category {
			kept = append(kept, s)
		}
	}
	r.scores[userID] = append(kept, scores...)
	return nil
}

func (r *fakeRubricRepo) CountByUserID(_ context.Context, userID shared.UserID) (int, error) {
	return len(r.scores[userID]), nil
}

type fakeRequestRepo struct {
	requests map[string]*match.Request
	byPair   map[shared.Pair]string
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: make(map[string]*match.Request),
		byPair:   make(map[shared.Pair]string),
	}
}

func (r *fakeRequestRepo) add(req *match.Request) {
	r.requests[req.ID] = req
	r.byPair[req.Pair()] = req.ID
}

func (r *fakeRequestRepo) CreateIfAbsent(_ context.Context, req *match.Request) (bool, error) {
	if _, ok := r.byPair[req.Pair()]; ok {
		return false, nil
	}
	r.add(req)
	return true, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*match.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, shared.ErrMatchRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) GetByPair(_ context.Context, pair shared.Pair) (*match.Request, error) {
	id, ok := r.byPair[pair]
	if !ok {
		return nil, shared.ErrMatchRequestNotFound
	}
	return r.requests[id], nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, req *match.Request) error {
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) ListSent(_ context.Context, senderID shared.UserID, opts match.RequestListOptions) ([]*match.Request, error) {
	return r.list(func(req *match.Request) bool { return req.SenderID == senderID }, opts), nil
}

func (r *fakeRequestRepo) ListReceived(_ context.Context, receiverID shared.UserID, opts match.RequestListOptions) ([]*match.Request, error) {
	return r.list(func(req *match.Request) bool { return req.ReceiverID == receiverID }, opts), nil
}

func (r *fakeRequestRepo) list(keep func(*match.Request) bool, opts match.RequestListOptions) []*match.Request {
	out := make([]*match.Request, 0)
	for _, req := range r.requests {
		if keep(req) && (opts.Status == "" || req.Status == opts.Status) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeRequestRepo) ListPartnerIDs(_ context.Context, userID shared.UserID) ([]shared.UserID, error) {
	out := make([]shared.UserID, 0)
	for _, req := range r.requests {
		if req.SenderID == userID {
			out = append(out, req.ReceiverID)
		} else if req.ReceiverID == userID {
			out = append(out, req.SenderID)
		}
	}
	return out, nil
}

type fakeConnectionRepo struct {
	connections map[string]*match.Connection
	byPair      map[shared.Pair]string
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{
		connections: make(map[string]*match.Connection),
		byPair:      make(map[shared.Pair]string),
	}
}

func (r *fakeConnectionRepo) Create(_ context.Context, conn *match.Connection) error {
	if _, ok := r.byPair[conn.Pair()]; ok {
		return shared.ErrConnectionExists
	}
	r.connections[conn.ID] = conn
	r.byPair[conn.Pair()] = conn.ID
	return nil
}

func (r *fakeConnectionRepo) GetByID(_ context.Context, id string) (*match.Connection, error) {
	conn, ok := r.connections[id]
	if !ok {
		return nil, shared.ErrConnectionNotFound
	}
	return conn, nil
}

func (r *fakeConnectionRepo) GetByPair(_ context.Context, pair shared.Pair) (*match.Connection, error) {
	id, ok := r.byPair[pair]
	if !ok {
		return nil, shared.ErrConnectionNotFound
	}
	return r.connections[id], nil
}

func (r *fakeConnectionRepo) ListForUser(_ context.Context, userID shared.UserID, _ shared.Pagination) ([]*match.Connection, error) {
	out := make([]*match.Connection, 0)
	for _, conn := range r.connections {
		if conn.InvolvesUser(userID) {
			out = append(out, conn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeConnectionRepo) ListPartnerIDs(_ context.Context, userID shared.UserID) ([]shared.UserID, error) {
	out := make([]shared.UserID, 0)
	for _, conn := range r.connections {
		if conn.InvolvesUser(userID) {
			out = append(out, conn.OtherUser(userID))
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) CountForUser(_ context.Context, userID shared.UserID) (int, error) {
	count := 0
	for _, conn := range r.connections {
		if conn.InvolvesUser(userID) {
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	items []*notification.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	r.items = append(r.items, n)
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*notification.Notification, error) {
	for _, n := range r.items {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, shared.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) ListForUser(_ context.Context, userID shared.UserID, opts notification.ListOptions) ([]*notification.Notification, error) {
	out := make([]*notification.Notification, 0)
	for _, n := range r.items {
		if n.UserID == userID && (!opts.UnreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID shared.UserID) (int, error) {
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string, userID shared.UserID) error {
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.MarkRead()
			return nil
		}
	}
	return shared.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID shared.UserID) (int, error) {
	updated := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			n.MarkRead()
			updated++
		}
	}
	return updated, nil
}

// recordingCache запоминает записанные списки и отдаёт их на чтение.
type recordingCache struct {
	stored map[shared.UserID]matching.CandidateList
	sets   int
	hits   int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{stored: make(map[shared.UserID]matching.CandidateList)}
}

func (c *recordingCache) GetSuggestions(_ context.Context, userID shared.UserID) (matching.CandidateList, bool, error) {
	list, ok := c.stored[userID]
	if ok {
		c.hits++
	}
	return list, ok, nil
}

func (c *recordingCache) SetSuggestions(_ context.Context, userID shared.UserID, list matching.CandidateList) error {
	c.stored[userID] = list
	c.sets++
	return nil
}
