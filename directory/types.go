package directory

import "time"

// User is a managed account as the directory endpoints return it.
type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Status             string    `json:"status,omitempty"`
	EmailVerified      bool      `json:"emailVerified"`
	MustChangePassword bool      `json:"mustChangePassword"`
	RoleID             string    `json:"roleId,omitempty"`
	TeamID             string    `json:"teamId,omitempty"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}

// Role groups permissions under a name.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Permission is a single named capability.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Team is an organizational unit users belong to.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	UserIDs []string `json:"userIds,omitempty"`
}

// Board is a managed dashboard board.
type Board struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"teamId,omitempty"`
}

// Platform is a sales platform the dashboard manages shops on.
type Platform struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Shop is a storefront on a platform.
type Shop struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PlatformID string `json:"platformId,omitempty"`
}

// ListOptions carries the common search and pagination parameters.
type ListOptions struct {
	Search   string
	Page     int
	PageSize int
}

// Page is one page of results plus the paging totals the endpoints report.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}
