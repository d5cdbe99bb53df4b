package directory

import "context"

// UserService is the contract for the user management endpoints.
type UserService interface {
	List(ctx context.Context, opts ListOptions) (*Page[User], error)
	Get(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user User) (*User, error)
	Update(ctx context.Context, id string, user User) (*User, error)
	Delete(ctx context.Context, id string) error
}

// RoleService is the contract for the role management endpoints.
type RoleService interface {
	List(ctx context.Context, opts ListOptions) (*Page[Role], error)
	Get(ctx context.Context, id string) (*Role, error)
	Create(ctx context.Context, role Role) (*Role, error)
	Update(ctx context.Context, id string, role Role) (*Role, error)
	Delete(ctx context.Context, id string) error
}

// PermissionService is the contract for the permission endpoints.
type PermissionService interface {
	List(ctx context.Context, opts ListOptions) (*Page[Permission], error)
}

// TeamService is the contract for the team management endpoints.
type TeamService interface {
	List(ctx context.Context, opts ListOptions) (*Page[Team], error)
	Get(ctx context.Context, id string) (*Team, error)
	Create(ctx context.Context, team Team) (*Team, error)
	Update(ctx context.Context, id string, team Team) (*Team, error)
	Delete(ctx context.Context, id string) error
}

// BoardService is the contract for the board endpoints.
type BoardService interface {
	List(ctx context.Context, opts ListOptions) (*Page[Board], error)
	Get(ctx context.Context, id string) (*Board, error)
}

// PlatformService is the contract for the platform endpoints.
type PlatformService interface {
	List(ctx context.Context, opts ListOptions) (*Page[Platform], error)
}

// ShopService is the contract for the shop endpoints.
type ShopService interface {
	List(ctx context.Context, opts ListOptions) (*Page[Shop], error)
	Get(ctx context.Context, id string) (*Shop, error)
}
