package dto

type VariationSelection struct {
	GroupID  string `json:"group_id"`
	OptionID string `json:"option_id"`
}

type AddItemInput struct {
	SessionID  string
	ProductID  string
	Quantity   int
	Selections []VariationSelection
}

type UpdateQuantityInput struct {
	SessionID string
	ItemID    string
	Quantity  int
}
