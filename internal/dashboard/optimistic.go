package dashboard

import (
	"errors"
	"sync"

	"github.com/hitoshi/taskdeck/internal/model"
)

// ErrMutationInFlight は同一タスクに対する変更が進行中であることを示す。
var ErrMutationInFlight = errors.New("mutation already in flight for task")

// MutationGuard はタスクIDごとの変更操作を直列化するガード。
// 進行中の変更がある間、同じタスクへの変更要求を拒否する。
type MutationGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewMutationGuard はMutationGuardを生成する。
func NewMutationGuard() *MutationGuard {
	return &MutationGuard{inFlight: make(map[string]struct{})}
}

// Begin は指定タスクの変更開始を宣言する。すでに進行中の変更がある場合は
// ErrMutationInFlightを返す。成功時は必ずEndを呼ぶこと。
func (g *MutationGuard) Begin(taskID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.inFlight[taskID]; ok {
		return ErrMutationInFlight
	}
	g.inFlight[taskID] = struct{}{}
	return nil
}

// End は指定タスクの変更完了を宣言する。
func (g *MutationGuard) End(taskID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, taskID)
}

// InFlight は指定タスクの変更が進行中かどうかを返す。
func (g *MutationGuard) InFlight(taskID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.inFlight[taskID]
	return ok
}

// OptimisticStore は楽観的更新をサポートするタスクのローカルキャッシュ。
// 変更を即座にキャッシュへ反映し、永続化の成否に応じてCommitまたは
// Rollbackを呼ぶことで確定・巻き戻しを行う。
type OptimisticStore struct {
	mu        sync.RWMutex
	tasks     map[string]*model.Task
	snapshots map[string]*model.Task
	guard     *MutationGuard
}

// NewOptimisticStore はOptimisticStoreを生成する。
func NewOptimisticStore() *OptimisticStore {
	return &OptimisticStore{
		tasks:     make(map[string]*model.Task),
		snapshots: make(map[string]*model.Task),
		guard:     NewMutationGuard(),
	}
}

// Load はキャッシュ全体を置き換える。サーバーからの再取得時に使用する。
func (s *OptimisticStore) Load(tasks []*model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		cp := *t
		s.tasks[t.ID] = &cp
	}
}

// List はキャッシュ内の全タスクを規定の並び順で返す。
func (s *OptimisticStore) List() []*model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		cp := *t
		out = append(out, &cp)
	}
	Sort(out)
	return out
}

// Get は指定タスクのコピーを返す。存在しない場合はnil。
func (s *OptimisticStore) Get(taskID string) *model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

// Apply は変更を楽観的にキャッシュへ反映する。元の状態はスナップショットとして
// 保持され、Rollbackで巻き戻せる。同一タスクへの変更が進行中の場合は
// ErrMutationInFlightを返し、キャッシュは変更しない。
// updatedがnilの場合は削除として扱う。
func (s *OptimisticStore) Apply(taskID string, updated *model.Task) error {
	if err := s.guard.Begin(taskID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.tasks[taskID]; ok {
		cp := *prev
		s.snapshots[taskID] = &cp
	} else {
		s.snapshots[taskID] = nil
	}

	if updated == nil {
		delete(s.tasks, taskID)
	} else {
		cp := *updated
		s.tasks[taskID] = &cp
	}
	return nil
}

// Commit は楽観的変更を確定し、スナップショットを破棄する。
func (s *OptimisticStore) Commit(taskID string) {
	s.mu.Lock()
	delete(s.snapshots, taskID)
	s.mu.Unlock()

	s.guard.End(taskID)
}

// Rollback は楽観的変更を巻き戻し、タスクをスナップショットの状態に戻す。
func (s *OptimisticStore) Rollback(taskID string) {
	s.mu.Lock()
	if prev, ok := s.snapshots[taskID]; ok {
		if prev == nil {
			delete(s.tasks, taskID)
		} else {
			s.tasks[taskID] = prev
		}
		delete(s.snapshots, taskID)
	}
	s.mu.Unlock()

	s.guard.End(taskID)
}
