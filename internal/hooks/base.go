package hooks

// base provides the bind/priority bookkeeping every concrete hook
// embeds.
type base struct {
	name     string
	priority int
	hc       Context
}

func (b *base) Name() string    { return b.name }
func (b *base) Priority() int   { return b.priority }
func (b *base) Bind(hc Context) { b.hc = hc }
