package task

// OptionalString は部分更新における「フィールド未指定」「明示的null」「値あり」の
// 3状態を区別する。JSONの undefined と null は別のワイヤ状態であり、
// falsy値として潰してはならない。
type OptionalString struct {
	// Set はフィールドがリクエストに含まれていたかどうか。
	Set bool
	// Value はフィールドの値。Set==true かつ Value==nil は明示的クリアを意味する。
	Value *string
}

// Patch はタスクの部分更新を表す。
// nilポインタのフィールドは「未指定 = 変更しない」を意味する。
type Patch struct {
	ID          string
	Title       *string
	Description OptionalString
	Completed   *bool
	Priority    *string
	Category    *string
	Status      *string
	// DueDate は生の文字列で受け取り、サービス層でパースする。
	// 明示的nullは期日のクリアを意味する。
	DueDate OptionalString
}
