package cancel

import "context"

// Watch cancels c when ctx is done. The returned stop func detaches the
// watch; it reports false if c was already canceled through ctx.
func Watch(ctx context.Context, c Canceler) (stop func() bool) {
	if ctx.Done() == nil {
		return func() bool { return true }
	}
	return context.AfterFunc(ctx, c.Cancel)
}
