package responses

import "github.com/alexanderthegreat96/mongo-cdc-seeder/helpers"

type GenericErrorResponse struct {
	Code      int    `json:"code"`
	Status    bool   `json:"status"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type InsertedDocumentsResponse struct {
	Table string   `json:"table"`
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

type InsertResponse struct {
	Status    bool                       `json:"status"`
	Mode      string                     `json:"mode"`
	Message   string                     `json:"message"`
	Users     *InsertedDocumentsResponse `json:"users,omitempty"`
	Orders    *InsertedDocumentsResponse `json:"orders,omitempty"`
	RequestID string                     `json:"request_id"`
}

// results mapping
type StatsResponse struct {
	Status       bool                  `json:"status"`
	Database     string                `json:"database"`
	Counts       *helpers.OrderedMap   `json:"counts"`
	RecentUsers  []*helpers.OrderedMap `json:"recent_users"`
	RecentOrders []*helpers.OrderedMap `json:"recent_orders"`
	RequestID    string                `json:"request_id"`
}

type CreatedResponse struct {
	Status    bool        `json:"status"`
	Message   string      `json:"message"`
	Table     string      `json:"table"`
	ID        string      `json:"id"`
	Document  interface{} `json:"document"`
	RequestID string      `json:"request_id"`
}

type PaginationResponse struct {
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	NextPage    int `json:"next_page"`
	PrevPage    int `json:"prev_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
}

type ListResponse struct {
	Status     bool                     `json:"status"`
	Database   string                   `json:"database"`
	Table      string                   `json:"table"`
	Count      int64                    `json:"count"`
	Pagination PaginationResponse       `json:"pagination"`
	Results    []map[string]interface{} `json:"results"`
	RequestID  string                   `json:"request_id"`
}
