package service

import (
	"context"
	"fmt"
	"sort"

	"hipaai-chat-be/internal/entity"
	"hipaai-chat-be/internal/repository/contract"
	"hipaai-chat-be/internal/repository/specification"
	"hipaai-chat-be/internal/repository/unitofwork"
)

// In-memory unit of work used by the service tests. Begin snapshots the
// state and Rollback restores it, so transactional behavior is observable
// without a database.

type fakeState struct {
	sessions      map[int64]*entity.ChatSession
	messages      []*entity.ChatMessage
	settings      map[string]*entity.Setting
	nextSessionId int64
	nextMessageId int64
}

func newFakeState() *fakeState {
	return &fakeState{
		sessions:      make(map[int64]*entity.ChatSession),
		settings:      make(map[string]*entity.Setting),
		nextSessionId: 1,
		nextMessageId: 1,
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextSessionId = s.nextSessionId
	c.nextMessageId = s.nextMessageId
	for id, sess := range s.sessions {
		copied := *sess
		c.sessions[id] = &copied
	}
	for _, msg := range s.messages {
		copied := *msg
		c.messages = append(c.messages, &copied)
	}
	for key, set := range s.settings {
		copied := *set
		c.settings[key] = &copied
	}
	return c
}

type fakeUnitOfWork struct {
	state    *fakeState
	snapshot *fakeState

	begins    int
	commits   int
	rollbacks int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{state: newFakeState()}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.snapshot != nil {
		return fmt.Errorf("transaction already started")
	}
	u.begins++
	u.snapshot = u.state.clone()
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if u.snapshot == nil {
		return fmt.Errorf("no transaction to commit")
	}
	u.commits++
	u.snapshot = nil
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.snapshot == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	u.rollbacks++
	u.state = u.snapshot
	u.snapshot = nil
	return nil
}

func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{uow: u}
}

func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{uow: u}
}

func (u *fakeUnitOfWork) SettingRepository() contract.SettingRepository {
	return &fakeSettingRepo{uow: u}
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newFakeFactory() (*fakeFactory, *fakeUnitOfWork) {
	uow := newFakeUnitOfWork()
	return &fakeFactory{uow: uow}, uow
}

// Session repository

type fakeSessionRepo struct {
	uow *fakeUnitOfWork
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	state := r.uow.state
	session.Id = state.nextSessionId
	state.nextSessionId++
	copied := *session
	state.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	copied := *session
	r.uow.state.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id int64) error {
	delete(r.uow.state.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, sess := range r.findAll(specs) {
		return sess, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	return r.findAll(specs), nil
}

func (r *fakeSessionRepo) findAll(specs []specification.Specification) []*entity.ChatSession {
	var result []*entity.ChatSession
	var order *specification.OrderBy
	for _, sess := range r.uow.state.sessions {
		matched := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				if sess.Id != s.ID {
					matched = false
				}
			case specification.OwnedBy:
				if sess.UserId != s.UserID {
					matched = false
				}
			case specification.OrderBy:
				o := s
				order = &o
			}
		}
		if matched {
			copied := *sess
			result = append(result, &copied)
		}
	}
	if order != nil && order.Field == "updated_at" {
		sort.Slice(result, func(i, j int) bool {
			ti, tj := result[i].CreatedAt, result[j].CreatedAt
			if result[i].UpdatedAt != nil {
				ti = *result[i].UpdatedAt
			}
			if result[j].UpdatedAt != nil {
				tj = *result[j].UpdatedAt
			}
			if order.Desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		})
	}
	return result
}

// Message repository

type fakeMessageRepo struct {
	uow *fakeUnitOfWork
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	state := r.uow.state
	message.Id = state.nextMessageId
	state.nextMessageId++
	copied := *message
	state.messages = append(state.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var result []*entity.ChatMessage
	var order *specification.OrderBy
	for _, msg := range r.uow.state.messages {
		matched := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByChatSessionID:
				if msg.ChatSessionId != s.ChatSessionID {
					matched = false
				}
			case specification.OrderBy:
				o := s
				order = &o
			}
		}
		if matched {
			copied := *msg
			result = append(result, &copied)
		}
	}
	if order != nil && order.Field == "created_at" {
		sort.Slice(result, func(i, j int) bool {
			if order.Desc {
				return result[i].CreatedAt.After(result[j].CreatedAt)
			}
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		})
	}
	return result, nil
}

func (r *fakeMessageRepo) DeleteByChatSessionId(ctx context.Context, chatSessionId int64) error {
	var kept []*entity.ChatMessage
	for _, msg := range r.uow.state.messages {
		if msg.ChatSessionId != chatSessionId {
			kept = append(kept, msg)
		}
	}
	r.uow.state.messages = kept
	return nil
}

// Setting repository

type fakeSettingRepo struct {
	uow *fakeUnitOfWork
}

func (r *fakeSettingRepo) FindByKey(ctx context.Context, key string) (*entity.Setting, error) {
	if setting, ok := r.uow.state.settings[key]; ok {
		copied := *setting
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeSettingRepo) Upsert(ctx context.Context, setting *entity.Setting) error {
	copied := *setting
	r.uow.state.settings[setting.Key] = &copied
	return nil
}

// Redactor stub

type fakeRedactor struct {
	reply    string
	err      error
	gotKey   string
	gotTexts []string
}

func (f *fakeRedactor) Redact(ctx context.Context, apiKey string, text string) (string, error) {
	f.gotKey = apiKey
	f.gotTexts = append(f.gotTexts, text)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// Settings stub

type fakeSettings struct {
	apiKey string
	err    error
}

func (f *fakeSettings) UpstreamAPIKey(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.apiKey, nil
}
