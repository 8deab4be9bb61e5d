package workflow

import (
	"fmt"

	"github.com/dukex/newsroom/pkg/models"
)

// FindPost returns the post with the given id.
func FindPost(posts []*models.Post, id string) (*models.Post, error) {
	for _, post := range posts {
		if post != nil && post.ID == id {
			return post, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrPostNotFound, id)
}

// ReplacePost returns a new collection with the post of the same id swapped for updated.
func ReplacePost(posts []*models.Post, updated *models.Post) ([]*models.Post, error) {
	if updated == nil {
		return posts, fmt.Errorf("%w: nil post", ErrPostNotFound)
	}

	out := make([]*models.Post, len(posts))
	found := false

	for i, post := range posts {
		if post != nil && post.ID == updated.ID {
			out[i] = updated
			found = true

			continue
		}

		out[i] = post
	}

	if !found {
		return posts, fmt.Errorf("%w: %s", ErrPostNotFound, updated.ID)
	}

	return out, nil
}

// RemovePost returns a new collection without the post, along with the removed post.
// Comments and revisions go with it.
func RemovePost(posts []*models.Post, id string) ([]*models.Post, *models.Post, error) {
	out := make([]*models.Post, 0, len(posts))

	var removed *models.Post

	for _, post := range posts {
		if post != nil && post.ID == id && removed == nil {
			removed = post

			continue
		}

		out = append(out, post)
	}

	if removed == nil {
		return posts, nil, fmt.Errorf("%w: %s", ErrPostNotFound, id)
	}

	return out, removed, nil
}

// AddPost returns a new collection with the post appended.
func AddPost(posts []*models.Post, post *models.Post) []*models.Post {
	out := make([]*models.Post, 0, len(posts)+1)
	out = append(out, posts...)

	return append(out, post)
}

// Delete removes one post from the collection. Only admin-tier roles may delete.
func (e *Engine) Delete(posts []*models.Post, id string, actor models.Actor) ([]*models.Post, *models.Post, error) {
	post, err := FindPost(posts, id)
	if err != nil {
		return posts, nil, &TransitionError{Op: "Delete", PostID: id, Role: actor.Role, Err: err}
	}

	if !actor.Role.IsAdminTier() {
		return posts, nil, newTransitionError("Delete", post, "", actor.Role, ErrInvalidTransition)
	}

	return RemovePost(posts, id)
}
