package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.CartStatsProcessor = (*CartStatsProcessor)(nil)
var _ port.CartStatsReader = (*CartStatsView)(nil)

// A cartEventCodec used for serde [schema.CartEventV1]
type cartEventCodec struct {
	serde Serde
}

func newCartEventCodec(s Serde) cartEventCodec {
	return cartEventCodec{s}
}

func (c cartEventCodec) Encode(v any) ([]byte, error) {
	const op = "cartEventCodec.Encode"
	if _, ok := v.(schema.CartEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c cartEventCodec) Decode(data []byte) (any, error) {
	const op = "cartEventCodec.Decode"
	var s schema.CartEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// An inCarts is the number of cart entries holding a product.
type inCarts int64

// An inCartsCodec used for serde [inCarts]
type inCartsCodec struct{}

func (inCartsCodec) Encode(v any) ([]byte, error) {
	const op = "inCartsCodec.Encode"
	n, ok := v.(inCarts)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt(nil, int64(n), 10), nil
}

func (inCartsCodec) Decode(data []byte) (any, error) {
	const op = "inCartsCodec.Decode"
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return inCarts(n), nil
}

// nextInCarts folds one event into the current counter. The counter never
// drops below zero.
func nextInCarts(current any, evt schema.CartEventV1) inCarts {
	n, _ := current.(inCarts)

	switch domain.CartAction(evt.Action) {
	case domain.CartActionAdded:
		n += inCarts(evt.Quantity)
	case domain.CartActionRemoved:
		n -= inCarts(evt.Quantity)
	}

	if n < 0 {
		n = 0
	}
	return n
}

// A CartStatsProcessor folds cart events from the stream topic into the
// per-product counters of its group table.
type CartStatsProcessor struct {
	gp *goka.Processor
}

func NewCartStatsProc(
	seedBrokers []string,
	inputStream string,
	group string,
	cartEventSerde Serde,
	opts ...goka.ProcessorOption,
) (CartStatsProcessor, error) {
	const op = "NewCartStatsProc"

	var p CartStatsProcessor

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newCartEventCodec(cartEventSerde),
			p.processFn,
		),
		goka.Persist(inCartsCodec{}),
	)

	opts = append([]goka.ProcessorOption{withNoLogProcOpt()}, opts...)
	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return CartStatsProcessor{}, opErr(err, op)
	}

	return CartStatsProcessor{gp}, nil
}

// Run starts the processor and returns once it is ready or ctx is done.
func (p CartStatsProcessor) Run(ctx context.Context, wg *sync.WaitGroup) {
	const op = "CartStatsProcessor.Run"
	log := slog.With("op", op)

	defer wg.Done()

	go p.run(ctx)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p CartStatsProcessor) Close() {
	const op = "CartStatsProcessor.Close"
	log := slog.With("op", op)

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

func (p CartStatsProcessor) run(ctx context.Context) {
	const op = "CartStatsProcessor.run"
	log := slog.With("op", op)

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p CartStatsProcessor) waitForReady(ctx context.Context) {
	const op = "CartStatsProcessor.waitForReady"
	log := slog.With("op", op)

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
	}
}

func (CartStatsProcessor) processFn(ctx goka.Context, msg any) {
	const op = "CartStatsProcessor.processFn"
	log := slog.With("op", op)

	evt, ok := msg.(schema.CartEventV1)
	if !ok {
		log.Error("unexpected message type", "type", fmt.Sprintf("%T", msg))
		return
	}

	n := nextInCarts(ctx.Value(), evt)
	ctx.SetValue(n)
	log.Debug(
		"cart stats updated",
		"productID", evt.ProductID,
		"action", evt.Action,
		"inCarts", int64(n),
	)
}

// A CartStatsView serves the group table of [CartStatsProcessor].
type CartStatsView struct {
	gv *goka.View
}

func NewCartStatsView(
	seedBrokers []string, group string, opts ...goka.ViewOption,
) (CartStatsView, error) {
	const op = "NewCartStatsView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		inCartsCodec{},
		opts...,
	)
	if err != nil {
		return CartStatsView{}, opErr(err, op)
	}

	return CartStatsView{gv}, nil
}

func (v CartStatsView) Run(ctx context.Context, wg *sync.WaitGroup) {
	const op = "CartStatsView.Run"
	log := slog.With("op", op)

	defer wg.Done()

	go func() {
		if err := v.gv.Run(ctx); err != nil {
			log.Error("unexpected fail on run", "err", err)
		}
	}()
	log.Info("running")
}

func (v CartStatsView) InCarts(productID int) (int64, error) {
	const op = "CartStatsView.InCarts"

	if !v.gv.Recovered() {
		return 0, opErr(ErrViewNotReady, op)
	}

	val, err := v.gv.Get(productKey(productID))
	if err != nil {
		return 0, opErr(err, op)
	}
	if val == nil {
		return 0, nil
	}

	n, ok := val.(inCarts)
	if !ok {
		return 0, opErr(ErrInvalidValueType, op)
	}
	return int64(n), nil
}
