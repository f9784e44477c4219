package dashboardhttp

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/cinescope/hrdash/internal/dashboard"
)

type loadGroup struct {
	group singleflight.Group
}

func (g *loadGroup) do(ctx context.Context, key string, fn func() (*dashboard.Dashboard, error)) (*dashboard.Dashboard, error, bool) {
	resultChan := g.group.DoChan(key, func() (interface{}, error) {
		return fn()
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err, res.Shared
		}
		return res.Val.(*dashboard.Dashboard), nil, res.Shared
	}
}
