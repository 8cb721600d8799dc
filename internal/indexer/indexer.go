package indexer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/vra-mcp/internal/config"
	"github.com/usestring/vra-mcp/pkg/client"
)

// Lister loads the provisioned resources to index.
type Lister interface {
	ProvisionedItems(ctx context.Context) ([]client.ConsumerResource, error)
}

// Indexer maintains in-memory indexes over provisioned resources using
// Roaring bitmaps. The whole index is rebuilt on refresh.
type Indexer struct {
	mu sync.RWMutex

	resources []client.ConsumerResource
	docToMeta []*ResourceMeta
	idToDoc   map[string]uint32

	// Inverted indexes
	idxType          map[string]*roaring.Bitmap
	idxStatus        map[string]*roaring.Bitmap
	idxOwner         map[string]*roaring.Bitmap
	idxBusinessGroup map[string]*roaring.Bitmap
	idxCatalogItem   map[string]*roaring.Bitmap
	idxParent        map[string]*roaring.Bitmap
	idxToken         map[string]*roaring.Bitmap

	lastSyncAt time.Time
	stale      bool
	// generation counts Invalidate calls. A reload clears stale only when no
	// invalidation arrived while it was listing.
	generation uint64
	group      singleflight.Group

	// Dependencies
	lister Lister
	config *config.Config
}

// New creates an empty Indexer. Call Refresh or RefreshIfStale to fill it.
func New(l Lister, cfg *config.Config) *Indexer {
	idx := &Indexer{lister: l, config: cfg}
	idx.reset(nil)
	return idx
}

// reset replaces the index content. Callers hold the write lock, except New.
func (idx *Indexer) reset(resources []client.ConsumerResource) {
	idx.resources = resources
	idx.docToMeta = make([]*ResourceMeta, 0, len(resources))
	idx.idToDoc = make(map[string]uint32, len(resources))
	idx.idxType = make(map[string]*roaring.Bitmap)
	idx.idxStatus = make(map[string]*roaring.Bitmap)
	idx.idxOwner = make(map[string]*roaring.Bitmap)
	idx.idxBusinessGroup = make(map[string]*roaring.Bitmap)
	idx.idxCatalogItem = make(map[string]*roaring.Bitmap)
	idx.idxParent = make(map[string]*roaring.Bitmap)
	idx.idxToken = make(map[string]*roaring.Bitmap)

	for i := range resources {
		idx.index(uint32(i), &resources[i])
	}
}

// index adds one resource under docID.
func (idx *Indexer) index(docID uint32, r *client.ConsumerResource) {
	meta := FromResource(r)
	meta.DocID = docID

	idx.idToDoc[meta.ID] = docID
	idx.docToMeta = append(idx.docToMeta, meta)

	if meta.Type != "" {
		addToBitmap(idx.idxType, meta.Type, docID)
	}
	if meta.Status != "" {
		addToBitmap(idx.idxStatus, meta.Status, docID)
	}
	for _, o := range meta.Owners {
		addToBitmap(idx.idxOwner, o, docID)
	}
	for _, bg := range meta.BusinessGroups {
		addToBitmap(idx.idxBusinessGroup, bg, docID)
	}
	for _, ci := range meta.CatalogItems {
		addToBitmap(idx.idxCatalogItem, ci, docID)
	}
	if meta.Parent != "" {
		addToBitmap(idx.idxParent, meta.Parent, docID)
	}
	for _, token := range Tokenize(r.Name) {
		addToBitmap(idx.idxToken, token, docID)
	}
}

// Filter selects resources. Empty fields do not filter. Matching is
// case-insensitive; Owner, BusinessGroup and CatalogItem match ids or labels
// exactly, Name matches a substring and Query requires every term to be a
// token of the name.
type Filter struct {
	Name          string
	Query         string
	Type          string
	Status        string
	Owner         string
	BusinessGroup string
	CatalogItem   string
	ParentID      string
}

// Search returns the indexed resources matching f, in vRA listing order.
func (idx *Indexer) Search(f Filter) []client.ConsumerResource {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidates := roaring.New()
	candidates.AddRange(0, uint64(len(idx.docToMeta)))

	and := func(index map[string]*roaring.Bitmap, key string) {
		if key == "" {
			return
		}
		bm, ok := index[strings.ToLower(key)]
		if !ok {
			candidates.Clear()
			return
		}
		candidates.And(bm)
	}
	and(idx.idxType, f.Type)
	and(idx.idxStatus, f.Status)
	and(idx.idxOwner, f.Owner)
	and(idx.idxBusinessGroup, f.BusinessGroup)
	and(idx.idxCatalogItem, f.CatalogItem)
	and(idx.idxParent, f.ParentID)
	for _, term := range Tokenize(f.Query) {
		and(idx.idxToken, term)
	}

	name := strings.ToLower(f.Name)
	result := make([]client.ConsumerResource, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		docID := it.Next()
		if name != "" && !strings.Contains(idx.docToMeta[docID].NameLower, name) {
			continue
		}
		result = append(result, idx.resources[docID])
	}
	return result
}

// Get returns an indexed resource by id.
func (idx *Indexer) Get(id string) (client.ConsumerResource, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	docID, ok := idx.idToDoc[id]
	if !ok {
		return client.ConsumerResource{}, false
	}
	return idx.resources[docID], true
}

// Counts returns the number of indexed resources per status.
func (idx *Indexer) Counts() map[string]int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	counts := make(map[string]int, len(idx.idxStatus))
	for status, bm := range idx.idxStatus {
		counts[status] = int(bm.GetCardinality())
	}
	return counts
}

// DocCount returns the number of indexed resources.
func (idx *Indexer) DocCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docToMeta)
}

// LastSync returns the time of the last successful refresh.
func (idx *Indexer) LastSync() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lastSyncAt
}

// Invalidate marks the index stale so the next RefreshIfStale reloads it.
// Call it after submitting anything that changes provisioned resources.
func (idx *Indexer) Invalidate() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.stale = true
	idx.generation++
}

// addToBitmap adds a docID to a string-keyed bitmap index.
func addToBitmap(index map[string]*roaring.Bitmap, key string, docID uint32) {
	bm, exists := index[key]
	if !exists {
		bm = roaring.New()
		index[key] = bm
	}
	bm.Add(docID)
}
