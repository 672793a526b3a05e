package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/tokenbar/pkg/asset"
)

// Persistence defines the persistence contract for balances, the watch list
// and transactions of wallet addresses.
type Persistence interface {
	Addresses(ctx context.Context) []string
	Balances(ctx context.Context, address string) ([]asset.Balance, error)
	SetBalance(address string, b asset.Balance) error
	RemoveBalance(address, assetID string) error
	Watched(ctx context.Context, address string) ([]asset.WatchedAsset, error)
	AddWatch(address string, w asset.WatchedAsset) error
	RemoveWatch(address, assetID string) error
	Transactions(ctx context.Context, address, assetID string) ([]asset.Tx, error)
	AddTransaction(address string, tx asset.Tx) error
	Watch(ctx context.Context) (<-chan Event, error)
}

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrAddressRequired is returned for calls without a wallet address.
	ErrAddressRequired = errors.New("store: address required")
	// ErrAssetRequired is returned for records without an asset id.
	ErrAssetRequired = errors.New("store: asset id required")
)

// record kinds, the first path element of every key
const (
	kindBalance = "bal"
	kindWatch   = "watch"
	kindTx      = "tx"
)

// Option tunes a Persistence created by Load.
type Option func(*persistence)

// WithLogger routes watcher diagnostics to log.
func WithLogger(log *zap.Logger) Option {
	return func(p *persistence) {
		if log != nil {
			p.log = log.Named("store")
		}
	}
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config, opts ...Option) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	p := &persistence{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// The CLI and the TUI write the same tree from different processes.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	log      *zap.Logger
}

func (p *persistence) Addresses(ctx context.Context) []string {
	seen := map[string]struct{}{}
	for _, kind := range []string{kindBalance, kindWatch} {
		for key := range p.d.KeysPrefix(kind+"-", ctx.Done()) {
			pk := keyToPathTransform(key)
			if len(pk.Path) < 2 {
				continue
			}
			if addr, err := decode(pk.Path[1]); err == nil {
				seen[addr] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for addr := range seen {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}

func (p *persistence) Balances(ctx context.Context, address string) ([]asset.Balance, error) {
	if address == "" {
		return nil, ErrAddressRequired
	}
	var out []asset.Balance
	for key := range p.d.KeysPrefix(prefix(kindBalance, address), ctx.Done()) {
		var b asset.Balance
		if err := p.read(key, &b); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		out = append(out, b)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Seq == out[j].Seq {
			return out[i].AssetID < out[j].AssetID
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (p *persistence) SetBalance(address string, b asset.Balance) error {
	if address == "" {
		return ErrAddressRequired
	}
	if strings.TrimSpace(b.AssetID) == "" {
		return ErrAssetRequired
	}
	key := recordKey(kindBalance, address, b.AssetID)
	var prev asset.Balance
	if err := p.read(key, &prev); err == nil && prev.Seq != 0 {
		b.Seq = prev.Seq
	}
	if b.Seq == 0 {
		b.Seq = nextSeq()
	}
	return p.write(key, b)
}

func (p *persistence) RemoveBalance(address, assetID string) error {
	return p.erase(recordKey(kindBalance, address, assetID), "balance", assetID)
}

func (p *persistence) Watched(ctx context.Context, address string) ([]asset.WatchedAsset, error) {
	if address == "" {
		return nil, ErrAddressRequired
	}
	var out []asset.WatchedAsset
	for key := range p.d.KeysPrefix(prefix(kindWatch, address), ctx.Done()) {
		var w asset.WatchedAsset
		if err := p.read(key, &w); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		out = append(out, w)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Seq == out[j].Seq {
			return out[i].AssetID < out[j].AssetID
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (p *persistence) AddWatch(address string, w asset.WatchedAsset) error {
	if address == "" {
		return ErrAddressRequired
	}
	if strings.TrimSpace(w.AssetID) == "" {
		return ErrAssetRequired
	}
	key := recordKey(kindWatch, address, w.AssetID)
	var prev asset.WatchedAsset
	if err := p.read(key, &prev); err == nil {
		w.Seq = prev.Seq
		if w.Added.IsZero() {
			w.Added = prev.Added
		}
	}
	if w.Seq == 0 {
		w.Seq = nextSeq()
	}
	if w.Added.IsZero() {
		w.Added = time.Now().UTC()
	}
	return p.write(key, w)
}

func (p *persistence) RemoveWatch(address, assetID string) error {
	return p.erase(recordKey(kindWatch, address, assetID), "watched asset", assetID)
}

func (p *persistence) Transactions(ctx context.Context, address, assetID string) ([]asset.Tx, error) {
	if address == "" {
		return nil, ErrAddressRequired
	}
	var out []asset.Tx
	for key := range p.d.KeysPrefix(prefix(kindTx, address)+encode(assetID)+"-", ctx.Done()) {
		var tx asset.Tx
		if err := p.read(key, &tx); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		out = append(out, tx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Time.Equal(out[j].Time) {
			return out[i].ID < out[j].ID
		}
		return out[i].Time.After(out[j].Time)
	})
	return out, nil
}

func (p *persistence) AddTransaction(address string, tx asset.Tx) error {
	if address == "" {
		return ErrAddressRequired
	}
	if strings.TrimSpace(tx.AssetID) == "" {
		return ErrAssetRequired
	}
	if tx.ID == "" {
		return errors.New("store: transaction id required")
	}
	key := fmt.Sprintf("%s%s-%s", prefix(kindTx, address), encode(tx.AssetID), encode(tx.ID))
	return p.write(key, tx)
}

func (p *persistence) read(key string, v interface{}) error {
	if !p.d.Has(key) {
		return ErrNotFound
	}
	val, err := p.d.Read(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(val, v)
}

func (p *persistence) write(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) erase(key, what, id string) error {
	if !p.d.Has(key) {
		return fmt.Errorf("%w: %s %q", ErrNotFound, what, id)
	}
	if err := p.d.Erase(key); err != nil {
		return fmt.Errorf("store: erase %s %q: %w", what, id, err)
	}
	return nil
}

var lastSeq int64

// nextSeq orders records by creation. It never repeats within a process.
func nextSeq() int64 {
	for {
		prev := atomic.LoadInt64(&lastSeq)
		next := time.Now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if atomic.CompareAndSwapInt64(&lastSeq, prev, next) {
			return next
		}
	}
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// prefix makes `kind-address-`
func prefix(kind, address string) string {
	return fmt.Sprintf("%s-%s-", kind, encode(address))
}

// recordKey makes `kind-address-asset`
func recordKey(kind, address, assetID string) string {
	return prefix(kind, address) + encode(assetID)
}

// encode keeps user supplied ids free of path separators and of the key
// separator.
func encode(s string) string {
	if s == "" {
		return "_"
	}
	return hex.EncodeToString([]byte(s))
}

func decode(s string) (string, error) {
	if s == "_" {
		return "", nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
