package resolve

import (
	"log/slog"
	"runtime/debug"

	"github.com/AskoldMakaruk/TelegramBotCore/internal/logging"
)

// Option configures a Resolver or a Compiler.
type Option func(*guard)

// WithLogger configures the logger that reports panicking constructors and
// validators.
func WithLogger(logger *slog.Logger) Option {
	return func(g *guard) {
		g.logger = logger
	}
}

// guard runs registered constructors and validators. A panic in one of them
// makes its value absent for the update instead of unwinding the caller.
type guard struct {
	logger *slog.Logger
}

func newGuard(opts []Option) guard {
	g := guard{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func (g guard) build(p *provider, args []any) (v any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Provider panicked",
				"provider", p.name(),
				"kind", p.kind.String(),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			v, ok = nil, false
		}
	}()
	return p.build(args)
}
