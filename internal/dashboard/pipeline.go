// Package dashboard はダッシュボード表示用のタスク変換パイプラインを提供する。
// フィルタ → 検索 → ソート → カテゴリ別グルーピングの純粋な同期変換であり、
// 取得済みのタスクリスト全体に対して適用される。
package dashboard

import (
	"sort"
	"strings"

	"github.com/hitoshi/taskdeck/internal/model"
)

// CategoryFilter はカテゴリフィルタを表す。ALLはフィルタなし。
type CategoryFilter string

const (
	// CategoryAll は全カテゴリを表示するフィルタ。
	CategoryAll CategoryFilter = "ALL"
	// CategoryPersonal は個人タスクのみを表示するフィルタ。
	CategoryPersonal CategoryFilter = "PERSONAL"
	// CategoryWork は仕事タスクのみを表示するフィルタ。
	CategoryWork CategoryFilter = "WORK"
)

// Valid はカテゴリフィルタが定義済みの値かどうかを判定する。
func (f CategoryFilter) Valid() bool {
	switch f {
	case CategoryAll, CategoryPersonal, CategoryWork:
		return true
	}
	return false
}

// StatusFilter は完了状態フィルタを表す。
type StatusFilter string

const (
	// StatusAll は全タスクを表示するフィルタ。
	StatusAll StatusFilter = "ALL"
	// StatusCompleted は完了タスクのみを表示するフィルタ。
	StatusCompleted StatusFilter = "COMPLETED"
	// StatusRemaining は未完了タスクのみを表示するフィルタ。
	StatusRemaining StatusFilter = "REMAINING"
)

// Valid は完了状態フィルタが定義済みの値かどうかを判定する。
func (f StatusFilter) Valid() bool {
	switch f {
	case StatusAll, StatusCompleted, StatusRemaining:
		return true
	}
	return false
}

// Pipeline はダッシュボードの表示変換を表す。
// ゼロ値のフィールドはフィルタなしとして扱う。
type Pipeline struct {
	Category CategoryFilter
	Status   StatusFilter
	// Query はタイトルに対する大文字小文字を区別しない部分一致検索。
	// 説明文は検索対象外。
	Query string
}

// Group はカテゴリごとのタスクグループ。
type Group struct {
	Category CategoryFilter
	Tasks    []*model.Task
}

// Apply はカテゴリフィルタ → 完了状態フィルタ → 検索 → ソートの順に
// 変換を適用した新しいスライスを返す。入力は変更しない。
func (p Pipeline) Apply(tasks []*model.Task) []*model.Task {
	filtered := make([]*model.Task, 0, len(tasks))
	query := strings.ToLower(strings.TrimSpace(p.Query))

	for _, t := range tasks {
		if p.Category != "" && p.Category != CategoryAll && string(t.Category) != string(p.Category) {
			continue
		}
		switch p.Status {
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		case StatusRemaining:
			if t.Completed {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Title), query) {
			continue
		}
		filtered = append(filtered, t)
	}

	Sort(filtered)
	return filtered
}

// Group はタスクをカテゴリ別にグルーピングする。
// カテゴリフィルタがALL（または未指定）の場合はPERSONAL、WORKの2つの
// 固定グループをこの順で返し、それ以外は対象カテゴリのみの1グループを返す。
func (p Pipeline) Group(tasks []*model.Task) []Group {
	if p.Category != "" && p.Category != CategoryAll {
		return []Group{{Category: p.Category, Tasks: tasks}}
	}

	groups := []Group{
		{Category: CategoryPersonal, Tasks: []*model.Task{}},
		{Category: CategoryWork, Tasks: []*model.Task{}},
	}
	for _, t := range tasks {
		switch t.Category {
		case model.CategoryPersonal:
			groups[0].Tasks = append(groups[0].Tasks, t)
		case model.CategoryWork:
			groups[1].Tasks = append(groups[1].Tasks, t)
		}
	}
	return groups
}

// Sort はタスクを規定の並び順にインプレースでソートする。
// 並び順: 未完了が先 → 優先度降順（HIGH > MEDIUM > LOW）→
// 期日昇順（期日なしは同一バケット内で最後）→ 作成日時降順。
// ストアのクエリと同一の決定的な順序を保証する。
func Sort(tasks []*model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if (a.DueDate == nil) != (b.DueDate == nil) {
			return a.DueDate != nil
		}
		if a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// CategoryCounts はカテゴリごとの件数内訳。
type CategoryCounts struct {
	Total     int
	Completed int
	Remaining int
}

// Overview はタスク全体のサマリー。ダッシュボードの概況パネルに表示される。
type Overview struct {
	Total     int
	Completed int
	Remaining int
	Personal  CategoryCounts
	Work      CategoryCounts
}

// Summarize はタスクリストの概況サマリーを計算する。
func Summarize(tasks []*model.Task) Overview {
	var o Overview
	for _, t := range tasks {
		o.Total++
		counts := &o.Personal
		if t.Category == model.CategoryWork {
			counts = &o.Work
		}
		counts.Total++
		if t.Completed {
			o.Completed++
			counts.Completed++
		} else {
			o.Remaining++
			counts.Remaining++
		}
	}
	return o
}
