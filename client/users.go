package client

import (
	"context"

	"github.com/desertthunder/spotx/models"
)

// CurrentUser fetches the profile of the user the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*models.PrivateUser, error) {
	var user models.PrivateUser
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// User fetches a public profile.
func (c *Client) User(ctx context.Context, id string) (*models.PublicUser, error) {
	id, err := parseID(models.TypeUser, id)
	if err != nil {
		return nil, err
	}

	var user models.PublicUser
	if err := c.get(ctx, "/users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
