package workflow

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/dukex/newsroom/pkg/models"
)

var propertyUsers = []string{author.ID, editor.ID, designer.ID, boss.ID, admin.ID, root.ID}

func drawPost(rt *rapid.T, id string) *models.Post {
	post := postAt(id, rapid.SampledFrom(models.AllStatuses()).Draw(rt, "status"))
	post.AuthorID = rapid.SampledFrom(propertyUsers).Draw(rt, "author")
	post.DesignerID = rapid.SampledFrom(append([]string{""}, propertyUsers...)).Draw(rt, "designer")

	return post
}

// TestProperty01_RejectedActionsNeverMutate verifies that every action outside
// AvailableActions is refused and leaves status and updatedAt untouched.
func TestProperty01_RejectedActionsNeverMutate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		engine, clk := newTestEngine()
		post := drawPost(rt, "p")
		role := rapid.SampledFrom(models.AllRoles()).Draw(rt, "role")
		userID := rapid.SampledFrom(propertyUsers).Draw(rt, "user")
		action := rapid.SampledFrom(append(models.AllActions(), "archive")).Draw(rt, "action")

		if contains(AvailableActions(post, role, userID), action) {
			return
		}

		input := ActionInput{
			Comment:       rapid.StringMatching(`[a-z ]{0,20}`).Draw(rt, "comment"),
			ScheduledDate: timePtr(clk.Now().Add(time.Hour)),
		}

		result, err := engine.ApplyAction(post, action, models.Actor{ID: userID, Role: role}, input)
		if err == nil {
			rt.Fatalf("%s by %s (%s) on %s was accepted", action, userID, role, post.Status)
		}

		if !IsInvalidTransition(err) {
			rt.Fatalf("expected invalid transition, got %v", err)
		}

		if result.Status != post.Status || !result.UpdatedAt.Equal(post.UpdatedAt) {
			rt.Fatalf("rejected action mutated the post")
		}
	})
}

// TestProperty02_RevisionRequestBumpsVersionByOne verifies the revision ledger invariant.
func TestProperty02_RevisionRequestBumpsVersionByOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		engine, _ := newTestEngine()
		post := postAt("p", models.StatusPendingReview)

		prior := rapid.IntRange(0, 5).Draw(rt, "prior_revisions")
		for i := 0; i < prior; i++ {
			post.Revisions = append(post.Revisions, models.Revision{ID: fmt.Sprintf("r%d", i), Version: i + 2})
		}

		post.CurrentVersion = prior + 1

		reviewer := rapid.SampledFrom([]models.Actor{boss, admin, root}).Draw(rt, "reviewer")
		comment := rapid.StringMatching(`[a-z]{1,12}( [a-z]{1,12}){0,3}`).Draw(rt, "comment")

		result, err := engine.ApplyAction(post, models.ActionRequestRevision, reviewer, ActionInput{Comment: comment})
		if err != nil {
			rt.Fatalf("request_revision failed: %v", err)
		}

		if result.CurrentVersion != post.CurrentVersion+1 {
			rt.Fatalf("version = %d, want %d", result.CurrentVersion, post.CurrentVersion+1)
		}

		if len(result.Revisions) != len(post.Revisions)+1 {
			rt.Fatalf("revisions = %d, want %d", len(result.Revisions), len(post.Revisions)+1)
		}

		last := result.Revisions[len(result.Revisions)-1]
		if last.Version != result.CurrentVersion {
			rt.Fatalf("revision version = %d, want %d", last.Version, result.CurrentVersion)
		}

		if len(result.Revisions) != result.CurrentVersion-1 {
			rt.Fatalf("len(revisions) = %d with currentVersion %d", len(result.Revisions), result.CurrentVersion)
		}
	})
}

// TestProperty03_ScheduleRejectsPastAndPresent verifies schedule dates at or before now are refused.
func TestProperty03_ScheduleRejectsPastAndPresent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		engine, clk := newTestEngine()
		post := postAt("p", models.StatusApproved)

		offset := time.Duration(rapid.IntRange(-100000, 0).Draw(rt, "offset_seconds")) * time.Second
		when := clk.Now().Add(offset)

		result, err := engine.ApplyAction(post, models.ActionSchedule, boss, ActionInput{ScheduledDate: &when})
		if err == nil || !IsValidationFailed(err) {
			rt.Fatalf("schedule at now%+v accepted: %v", offset, err)
		}

		if result != post {
			rt.Fatalf("rejected schedule returned a different post")
		}
	})
}

// TestProperty04_SubmitForDesignHandsOverToDesigners verifies the design hand-off round trip.
func TestProperty04_SubmitForDesignHandsOverToDesigners(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		engine, _ := newTestEngine()
		post := postAt("p", models.StatusDraft)
		designerID := rapid.StringMatching(`designer-[0-9]{1,3}`).Draw(rt, "designer")

		submitted, err := engine.ApplyAction(post, models.ActionSubmitForDesign, author, ActionInput{})
		if err != nil {
			rt.Fatalf("submit_for_design failed: %v", err)
		}

		if !contains(AvailableActions(submitted, models.RoleDesigner, designerID), models.ActionStartDesign) {
			rt.Fatalf("designer cannot start design after submission")
		}

		if contains(AvailableActions(submitted, author.Role, author.ID), models.ActionSubmitForDesign) {
			rt.Fatalf("author can still submit for design")
		}
	})
}

// TestProperty05_BulkApproveLeavesNonPendingUntouched verifies bulk approve only moves pending posts.
func TestProperty05_BulkApproveLeavesNonPendingUntouched(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		engine, _ := newTestEngine()

		n := rapid.IntRange(1, 10).Draw(rt, "num_posts")
		posts := make([]*models.Post, 0, n)
		ids := make([]string, 0, n)

		for i := 0; i < n; i++ {
			post := postAt(fmt.Sprintf("p%d", i), rapid.SampledFrom(models.AllStatuses()).Draw(rt, "status"))
			posts = append(posts, post)
			ids = append(ids, post.ID)
		}

		result, err := engine.Bulk(posts, ids, models.BulkApprove, boss, ActionInput{})
		if err != nil {
			rt.Fatalf("bulk approve failed: %v", err)
		}

		for i, post := range posts {
			got := result.Posts[i]
			if post.Status == models.StatusPendingReview {
				if got.Status != models.StatusApproved {
					rt.Fatalf("post %s status = %s, want approved", post.ID, got.Status)
				}

				continue
			}

			if got != post {
				rt.Fatalf("non-pending post %s was replaced", post.ID)
			}
		}
	})
}
