package models

import "encoding/json"

// Listing нормализованная страница выдачи каталога.
//
// Элементы выдачи передаются клиенту без изменений, поэтому хранятся как сырой JSON.
type Listing struct {
	Content    []json.RawMessage `json:"content" swaggertype:"array,object"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}
