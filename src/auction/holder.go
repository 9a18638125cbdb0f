package auction

import "sync"

// Holder keeps the currently loaded dataset. It is replaced wholesale on every successful
// load and never cleared.
type Holder struct {
	mu sync.RWMutex
	ds *Dataset
}

// Set replaces the current dataset. A nil dataset is ignored so failed loads keep the old one.
func (h *Holder) Set(ds *Dataset) {
	if ds == nil {
		return
	}
	h.mu.Lock()
	h.ds = ds
	h.mu.Unlock()
	Infof("dataset %s active (%d rows)", ds.Source, ds.Len())
}

// Current returns the loaded dataset or ErrNoDataset.
func (h *Holder) Current() (*Dataset, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.ds == nil {
		return nil, ErrNoDataset
	}
	return h.ds, nil
}

// Loaded reports whether a dataset has been set.
func (h *Holder) Loaded() bool {
	_, err := h.Current()
	return err == nil
}
