package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nwhite/newswire/internal/apperror"
	"github.com/nwhite/newswire/internal/model"
	"github.com/nwhite/newswire/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memUsers is an in-memory UserRepository.
type memUsers struct {
	users map[string]*model.User // by ID
	next  int
}

var _ repository.UserRepository = (*memUsers)(nil)

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*model.User{}}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("email taken")
		}
	}
	m.next++
	user.ID = fmt.Sprintf("u%d", m.next)
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("no such user")
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("no such user")
}

func (m *memUsers) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("no such user")
	}
	m.users[user.ID] = user
	return nil
}

// memTopics is an in-memory TopicRepository; creator follows land in the
// linked memFollows.
type memTopics struct {
	topics  map[string]*model.Topic // by ID
	follows *memFollows
	next    int
}

var _ repository.TopicRepository = (*memTopics)(nil)

func newMemTopics(follows *memFollows) *memTopics {
	return &memTopics{topics: map[string]*model.Topic{}, follows: follows}
}

func (m *memTopics) Create(_ context.Context, topic *model.Topic, creatorID string) error {
	for _, t := range m.topics {
		if t.Name == topic.Name {
			return apperror.Conflict("topic exists")
		}
	}
	m.next++
	topic.ID = fmt.Sprintf("t%d", m.next)
	topic.CreatedAt = time.Now()
	m.topics[topic.ID] = topic
	if m.follows != nil {
		m.follows.Follow(context.Background(), creatorID, topic.ID)
	}
	return nil
}

func (m *memTopics) GetByID(_ context.Context, id string) (*model.Topic, error) {
	if t, ok := m.topics[id]; ok {
		return t, nil
	}
	return nil, apperror.NotFound("no such topic")
}

func (m *memTopics) GetByName(_ context.Context, name string) (*model.Topic, error) {
	for _, t := range m.topics {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, apperror.NotFound("no such topic")
}

func (m *memTopics) ListNewest(_ context.Context, _ repository.Page) ([]model.Topic, error) {
	out := []model.Topic{}
	for _, t := range m.topics {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTopics) ListPopular(ctx context.Context, page repository.Page) ([]model.Topic, error) {
	return m.ListNewest(ctx, page)
}

// memFollows is an in-memory FollowRepository.
type memFollows struct {
	pairs map[string][]string // userID -> topicIDs, insertion order
}

var _ repository.FollowRepository = (*memFollows)(nil)

func newMemFollows() *memFollows {
	return &memFollows{pairs: map[string][]string{}}
}

func (m *memFollows) Follow(_ context.Context, userID, topicID string) error {
	for _, id := range m.pairs[userID] {
		if id == topicID {
			return nil
		}
	}
	m.pairs[userID] = append(m.pairs[userID], topicID)
	return nil
}

func (m *memFollows) Unfollow(_ context.Context, userID, topicID string) error {
	ids := m.pairs[userID]
	for i, id := range ids {
		if id == topicID {
			m.pairs[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memFollows) IsFollowing(_ context.Context, userID, topicID string) (bool, error) {
	for _, id := range m.pairs[userID] {
		if id == topicID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFollows) TopicIDs(_ context.Context, userID string) ([]string, error) {
	ids := []string{}
	ids = append(ids, m.pairs[userID]...)
	return ids, nil
}

func (m *memFollows) TopicsByUser(_ context.Context, userID string) ([]model.Topic, error) {
	out := []model.Topic{}
	for _, id := range m.pairs[userID] {
		out = append(out, model.Topic{ID: id})
	}
	return out, nil
}

// memUpdates is an in-memory UpdateRepository that also records the
// arguments of the last list call, so feed tests can assert scope and
// window selection.
type memUpdates struct {
	updates map[string]*model.Update
	next    int

	lastTopicIDs []string
	lastSince    time.Time
	lastPage     repository.Page
	lastOrder    string // "recent" or "popular"

	listResult []model.Update
}

var _ repository.UpdateRepository = (*memUpdates)(nil)

func newMemUpdates() *memUpdates {
	return &memUpdates{updates: map[string]*model.Update{}, listResult: []model.Update{}}
}

func (m *memUpdates) Create(_ context.Context, update *model.Update) error {
	m.next++
	update.ID = fmt.Sprintf("up%d", m.next)
	update.CreatedAt = time.Now()
	m.updates[update.ID] = update
	return nil
}

func (m *memUpdates) GetByID(_ context.Context, id string) (*model.Update, error) {
	if u, ok := m.updates[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("no such update")
}

func (m *memUpdates) Delete(_ context.Context, id string) error {
	if _, ok := m.updates[id]; !ok {
		return apperror.NotFound("no such update")
	}
	delete(m.updates, id)
	return nil
}

func (m *memUpdates) ListRecent(_ context.Context, topicIDs []string, page repository.Page) ([]model.Update, error) {
	m.lastOrder = "recent"
	m.lastTopicIDs = topicIDs
	m.lastPage = page
	return m.listResult, nil
}

func (m *memUpdates) ListPopular(_ context.Context, topicIDs []string, since time.Time, page repository.Page) ([]model.Update, error) {
	m.lastOrder = "popular"
	m.lastTopicIDs = topicIDs
	m.lastSince = since
	m.lastPage = page
	return m.listResult, nil
}

// memVotes is an in-memory VoteRepository.
type memVotes struct {
	votes map[string]bool // voterID + "|" + updateID
}

var _ repository.VoteRepository = (*memVotes)(nil)

func newMemVotes() *memVotes {
	return &memVotes{votes: map[string]bool{}}
}

func (m *memVotes) Toggle(_ context.Context, voterID, updateID string) (bool, error) {
	key := voterID + "|" + updateID
	if m.votes[key] {
		delete(m.votes, key)
		return false, nil
	}
	m.votes[key] = true
	return true, nil
}

func (m *memVotes) Count(_ context.Context, updateID string) (int, error) {
	count := 0
	for key := range m.votes {
		if strings.HasSuffix(key, "|"+updateID) {
			count++
		}
	}
	return count, nil
}

func (m *memVotes) HasVoted(_ context.Context, voterID, updateID string) (bool, error) {
	return m.votes[voterID+"|"+updateID], nil
}

// seedUser adds a user directly, bypassing validation.
func seedUser(t *testing.T, users *memUsers, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash"}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}
