package goSession

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MrEthical07/goSession/directory"
)

// Directory endpoint roots, relative to the API base URL.
const (
	usersPath       = "/users"
	rolesPath       = "/roles"
	permissionsPath = "/permissions"
	teamsPath       = "/teams"
	boardsPath      = "/boards"
	platformsPath   = "/platforms"
	shopsPath       = "/shops"
)

// Users returns the user management client. All directory clients travel
// through the authenticated gateway, so expired credentials refresh
// transparently.
func (c *Client) Users() directory.UserService { return usersClient{c} }

// Roles returns the role management client.
func (c *Client) Roles() directory.RoleService { return rolesClient{c} }

// Permissions returns the permission listing client.
func (c *Client) Permissions() directory.PermissionService { return permissionsClient{c} }

// Teams returns the team management client.
func (c *Client) Teams() directory.TeamService { return teamsClient{c} }

// Boards returns the board client.
func (c *Client) Boards() directory.BoardService { return boardsClient{c} }

// Platforms returns the platform listing client.
func (c *Client) Platforms() directory.PlatformService { return platformsClient{c} }

// Shops returns the shop client.
func (c *Client) Shops() directory.ShopService { return shopsClient{c} }

func listPage[T any](ctx context.Context, c *Client, base string, opts directory.ListOptions) (*directory.Page[T], error) {
	if c == nil {
		return nil, ErrClientNotReady
	}

	q := url.Values{}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	path := base
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page directory.Page[T]
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func getOne[T any](ctx context.Context, c *Client, base, id string) (*T, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	var out T
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, base+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func createOne[T any](ctx context.Context, c *Client, base string, in T) (*T, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	var out T
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, base, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func updateOne[T any](ctx context.Context, c *Client, base, id string, in T) (*T, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	var out T
	if err := c.doJSON(ctx, c.httpClient, http.MethodPut, base+"/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func deleteOne(ctx context.Context, c *Client, base, id string) error {
	if c == nil {
		return ErrClientNotReady
	}
	return c.doJSON(ctx, c.httpClient, http.MethodDelete, base+"/"+url.PathEscape(id), nil, nil)
}

type usersClient struct{ c *Client }

func (u usersClient) List(ctx context.Context, opts directory.ListOptions) (*directory.Page[directory.User], error) {
	return listPage[directory.User](ctx, u.c, usersPath, opts)
}

func (u usersClient) Get(ctx context.Context, id string) (*directory.User, error) {
	return getOne[directory.User](ctx, u.c, usersPath, id)
}

func (u usersClient) Create(ctx context.Context, user directory.User) (*directory.User, error) {
	return createOne(ctx, u.c, usersPath, user)
}

func (u usersClient) Update(ctx context.Context, id string, user directory.User) (*directory.User, error) {
	return updateOne(ctx, u.c, usersPath, id, user)
}

func (u usersClient) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, u.c, usersPath, id)
}

type rolesClient struct{ c *Client }

func (r rolesClient) List(ctx context.Context, opts directory.ListOptions) (*directory.Page[directory.Role], error) {
	return listPage[directory.Role](ctx, r.c, rolesPath, opts)
}

func (r rolesClient) Get(ctx context.Context, id string) (*directory.Role, error) {
	return getOne[directory.Role](ctx, r.c, rolesPath, id)
}

func (r rolesClient) Create(ctx context.Context, role directory.Role) (*directory.Role, error) {
	return createOne(ctx, r.c, rolesPath, role)
}

func (r rolesClient) Update(ctx context.Context, id string, role directory.Role) (*directory.Role, error) {
	return updateOne(ctx, r.c, rolesPath, id, role)
}

func (r rolesClient) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.c, rolesPath, id)
}

type permissionsClient struct{ c *Client }

func (p permissionsClient) List(ctx context.Context, opts directory.ListOptions) (*directory.Page[directory.Permission], error) {
	return listPage[directory.Permission](ctx, p.c, permissionsPath, opts)
}

type teamsClient struct{ c *Client }

func (t teamsClient) List(ctx context.Context, opts directory.ListOptions) (*directory.Page[directory.Team], error) {
	return listPage[directory.Team](ctx, t.c, teamsPath, opts)
}

func (t teamsClient) Get(ctx context.Context, id string) (*directory.Team, error) {
	return getOne[directory.Team](ctx, t.c, teamsPath, id)
}

func (t teamsClient) Create(ctx context.Context, team directory.Team) (*directory.Team, error) {
	return createOne(ctx, t.c, teamsPath, team)
}

func (t teamsClient) Update(ctx context.Context, id string, team directory.Team) (*directory.Team, error) {
	return updateOne(ctx, t.c, teamsPath, id, team)
}

func (t teamsClient) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, t.c, teamsPath, id)
}

type boardsClient struct{ c *Client }

func (b boardsClient) List(ctx context.Context, opts directory.ListOptions) (*directory.Page[directory.Board], error) {
	return listPage[directory.Board](ctx, b.c, boardsPath, opts)
}

func (b boardsClient) Get(ctx context.Context, id string) (*directory.Board, error) {
	return getOne[directory.Board](ctx, b.c, boardsPath, id)
}

type platformsClient struct{ c *Client }

func (p platformsClient) List(ctx context.Context, opts directory.ListOptions) (*directory.Page[directory.Platform], error) {
	return listPage[directory.Platform](ctx, p.c, platformsPath, opts)
}

type shopsClient struct{ c *Client }

func (s shopsClient) List(ctx context.Context, opts directory.ListOptions) (*directory.Page[directory.Shop], error) {
	return listPage[directory.Shop](ctx, s.c, shopsPath, opts)
}

func (s shopsClient) Get(ctx context.Context, id string) (*directory.Shop, error) {
	return getOne[directory.Shop](ctx, s.c, shopsPath, id)
}
