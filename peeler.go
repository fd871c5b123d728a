package onion

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teenjuna/onion/internal/sqlite"
	"github.com/teenjuna/onion/transform/parity"
)

var (
	ErrClosed = errors.New("peeler is closed")
	// ErrNotFound is returned when a layer has not been peeled yet.
	ErrNotFound = sqlite.ErrNotFound
	// ErrCorrupt is returned when a stored or archived output does not match its CID.
	ErrCorrupt = sqlite.ErrCorrupt
)

// Peeler runs the layers of the onion one after another. The carrier of the first layer comes
// from a [Source] and is cached. Every layer output is persisted and becomes the carrier of the
// next layer.
//
// Peeler is safe for use by a single goroutine at a time.
type Peeler struct {
	cfg     *config
	source  Source
	storage *sqlite.Storage
	metrics *metrics
	logger  logrus.FieldLogger
	closed  *atomic.Bool
}

func New(source Source, options ...Option) (*Peeler, error) {
	if source == nil {
		panic("source can't be nil")
	}

	cfg := newConfig(options...)
	storage, err := sqlite.New(
		sqlite.WithURI(cfg.file.uri()),
	)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	peeler := Peeler{
		cfg:     cfg,
		source:  source,
		storage: storage,
		metrics: cfg.prometheus.metrics(),
		logger:  cfg.logger,
		closed:  new(atomic.Bool),
	}

	return &peeler, nil
}

// Peel goes through the configured number of layers starting with [Layer0] and returns their
// outputs in order. The first failing layer stops the run. Outputs of the layers before it stay
// persisted.
func (p *Peeler) Peel(ctx context.Context) ([]Record, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}

	carrier, err := p.document(ctx, Layer0)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, p.cfg.depth)
	for _, layer := range Layers()[:p.cfg.depth] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := p.peel(layer, carrier)
		if err != nil {
			return nil, err
		}

		records = append(records, *record)
		carrier = record.Data
	}

	return records, nil
}

// PeelLayer peels a single layer. Its carrier is the stored output of the previous layer if
// there is one, otherwise it is requested from the cache or the source.
func (p *Peeler) PeelLayer(ctx context.Context, layer Layer) (*Record, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	if !layer.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLayer, int(layer))
	}

	var carrier []byte
	if layer > Layer0 {
		prev, err := p.storage.Layer(int(layer - 1))
		switch {
		case err == nil:
			carrier = prev.Data
		case !errors.Is(err, sqlite.ErrNotFound):
			return nil, fmt.Errorf("load %s: %w", layer-1, err)
		}
	}

	if carrier == nil {
		doc, err := p.document(ctx, layer)
		if err != nil {
			return nil, err
		}
		carrier = doc
	}

	return p.peel(layer, carrier)
}

// Record returns the stored output of a layer.
//
// Returns [ErrNotFound] if the layer has not been peeled.
func (p *Peeler) Record(layer Layer) (*Record, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}

	l, err := p.storage.Layer(int(layer))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", layer, err)
	}

	record := fromStorage(l)
	return &record, nil
}

// Records returns the stored outputs of all peeled layers in order.
func (p *Peeler) Records() ([]Record, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}

	layers, err := p.storage.Layers()
	if err != nil {
		return nil, fmt.Errorf("load layers: %w", err)
	}

	records := make([]Record, len(layers))
	for i := range layers {
		records[i] = fromStorage(&layers[i])
	}

	return records, nil
}

// Refresh forgets cached carriers and stored outputs, so the next Peel asks the source again.
func (p *Peeler) Refresh() error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := p.storage.Clear(); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	p.logger.Info("cleared cached carriers and layer outputs")
	return nil
}

func (p *Peeler) Close() error {
	if p.closed.Swap(true) {
		return ErrClosed
	}
	if err := p.storage.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

func (p *Peeler) peel(layer Layer, carrier []byte) (*Record, error) {
	start := time.Now()

	out, st, err := layer.peel(carrier)
	if err != nil {
		p.logger.WithError(err).WithField("layer", int(layer)).Error("failed to peel layer")
		return nil, err
	}

	p.metrics.peelDuration.Observe(time.Since(start).Seconds())

	stored, err := p.storage.PutLayer(int(layer), out)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", layer, err)
	}

	label := strconv.Itoa(int(layer))
	p.metrics.layersPeeled.WithLabelValues(label).Inc()
	p.metrics.bytesIn.WithLabelValues(label).Add(float64(st.decoded))
	p.metrics.bytesOut.WithLabelValues(label).Add(float64(len(out)))

	fields := logrus.Fields{
		"layer": int(layer),
		"cid":   stored.CID,
		"in":    st.decoded,
		"out":   len(out),
	}

	if layer == Layer2 {
		discarded := st.decoded - st.filtered
		short := parity.Short(st.filtered)
		p.metrics.parityDiscarded.Add(float64(discarded))
		fields["discarded"] = discarded
		fields["short_group"] = short
		if short {
			p.metrics.shortGroups.Inc()
			p.logger.WithFields(fields).Warn("filtered bytes end with a partial group, output is zero padded")
		}
	}

	p.logger.WithFields(fields).Info("peeled layer")

	record := fromStorage(stored)
	return &record, nil
}

// document returns the carrier of a layer from the cache, fetching and caching it on a miss.
func (p *Peeler) document(ctx context.Context, layer Layer) ([]byte, error) {
	doc, err := p.storage.Document(int(layer))
	if err == nil {
		p.metrics.cacheHits.Inc()
		p.logger.WithField("layer", int(layer)).Debug("using cached carrier")
		return doc.Data, nil
	}
	if !errors.Is(err, sqlite.ErrNotFound) {
		return nil, fmt.Errorf("load cached carrier: %w", err)
	}

	data, err := p.fetch(ctx, layer)
	if err != nil {
		return nil, err
	}

	if err := p.storage.PutDocument(int(layer), data); err != nil {
		return nil, fmt.Errorf("cache carrier: %w", err)
	}

	return data, nil
}

func (p *Peeler) fetch(ctx context.Context, layer Layer) ([]byte, error) {
	var (
		retry = p.cfg.retryPolicy.Derive()
		log   = p.logger.WithField("layer", int(layer))
		err   error
	)
	for retry.Attempt(ctx) {
		var data []byte
		data, err = p.source.Carrier(ctx, layer)
		if err == nil {
			p.metrics.fetches.WithLabelValues("ok").Inc()
			log.WithField("size", len(data)).Info("fetched carrier")
			return data, nil
		}

		p.metrics.fetches.WithLabelValues("error").Inc()
		if errors.Is(err, ErrNoCarrier) {
			break
		}
		log.WithError(err).Warn("failed to fetch carrier")
	}

	if err == nil {
		err = ctx.Err()
	}

	return nil, fmt.Errorf("fetch carrier of %s: %w", layer, err)
}
