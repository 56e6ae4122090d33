package github

import "github.com/google/go-github/v57/github"

// Locked reports whether a protection record has the lock flag enabled. A
// nil record means no protection, which is unlocked.
func Locked(p *github.Protection) bool {
	if p == nil {
		return false
	}
	return p.GetLockBranch().GetEnabled()
}

// LockRequest builds the full replacement payload for a protection update.
// Every sub-setting enabled in the prior record is carried forward
// unchanged; only the lock flag takes the requested value. A nil prior
// record yields safe defaults for everything else.
func LockRequest(prior *github.Protection, lock bool) *github.ProtectionRequest {
	if prior == nil {
		return &github.ProtectionRequest{
			RequiredStatusChecks:           nil,
			EnforceAdmins:                  true,
			RequiredPullRequestReviews:     nil,
			Restrictions:                   nil,
			LockBranch:                     github.Bool(lock),
			RequireLinearHistory:           github.Bool(true),
			AllowForcePushes:               github.Bool(false),
			AllowDeletions:                 github.Bool(false),
			BlockCreations:                 github.Bool(false),
			RequiredConversationResolution: github.Bool(false),
			AllowForkSyncing:               github.Bool(false),
		}
	}

	req := &github.ProtectionRequest{
		LockBranch:                     github.Bool(lock),
		EnforceAdmins:                  prior.EnforceAdmins != nil && prior.EnforceAdmins.Enabled,
		RequireLinearHistory:           github.Bool(prior.RequireLinearHistory != nil && prior.RequireLinearHistory.Enabled),
		AllowForcePushes:               github.Bool(prior.AllowForcePushes != nil && prior.AllowForcePushes.Enabled),
		AllowDeletions:                 github.Bool(prior.AllowDeletions != nil && prior.AllowDeletions.Enabled),
		BlockCreations:                 github.Bool(prior.GetBlockCreations().GetEnabled()),
		RequiredConversationResolution: github.Bool(prior.RequiredConversationResolution != nil && prior.RequiredConversationResolution.Enabled),
		AllowForkSyncing:               github.Bool(prior.GetAllowForkSyncing().GetEnabled()),
	}

	if sc := prior.RequiredStatusChecks; sc != nil {
		contexts := sc.Contexts
		if contexts == nil {
			contexts = []string{}
		}
		req.RequiredStatusChecks = &github.RequiredStatusChecks{
			Strict:   sc.Strict,
			Contexts: contexts,
		}
	}

	if pr := prior.RequiredPullRequestReviews; pr != nil {
		req.RequiredPullRequestReviews = &github.PullRequestReviewsEnforcementRequest{
			DismissStaleReviews:          pr.DismissStaleReviews,
			RequireCodeOwnerReviews:      pr.RequireCodeOwnerReviews,
			RequiredApprovingReviewCount: pr.RequiredApprovingReviewCount,
		}
	}

	if rs := prior.Restrictions; rs != nil {
		users := make([]string, 0, len(rs.Users))
		for _, u := range rs.Users {
			users = append(users, u.GetLogin())
		}
		teams := make([]string, 0, len(rs.Teams))
		for _, t := range rs.Teams {
			teams = append(teams, t.GetSlug())
		}
		apps := make([]string, 0, len(rs.Apps))
		for _, a := range rs.Apps {
			apps = append(apps, a.GetSlug())
		}
		req.Restrictions = &github.BranchRestrictionsRequest{
			Users: users,
			Teams: teams,
			Apps:  apps,
		}
	}

	return req
}
