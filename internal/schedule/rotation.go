package schedule

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/runnerr0/pageopener/internal/storage"
)

// Visit is the side effect requested by a fire: open URL, then record At as
// the page's last opened time.
type Visit struct {
	PageID int64     `json:"page_id"`
	URL    string    `json:"url"`
	At     time.Time `json:"at"`
}

// Opener opens a URL for the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// PageToucher records visits.
type PageToucher interface {
	UpdatePage(ctx context.Context, id int64, upd storage.PageUpdate) error
}

// lastOpenedKey groups pages at millisecond precision; never opened pages
// sit at the epoch, ahead of every real visit.
func lastOpenedKey(p storage.Page) int64 {
	if p.LastOpened == nil {
		return 0
	}
	return p.LastOpened.UnixMilli()
}

// SelectNextPage picks uniformly at random among the pages sharing the
// oldest last opened time. A nil rng uses the global source.
func SelectNextPage(pages []storage.Page, rng *rand.Rand) (storage.Page, bool) {
	if len(pages) == 0 {
		return storage.Page{}, false
	}

	minKey := lastOpenedKey(pages[0])
	oldest := []storage.Page{pages[0]}
	for _, p := range pages[1:] {
		switch k := lastOpenedKey(p); {
		case k < minKey:
			minKey = k
			oldest = append(oldest[:0], p)
		case k == minKey:
			oldest = append(oldest, p)
		}
	}

	var i int
	if rng != nil {
		i = rng.IntN(len(oldest))
	} else {
		i = rand.IntN(len(oldest))
	}
	return oldest[i], true
}

// OnFire builds the visit for the selected page.
func OnFire(selected storage.Page, now time.Time) Visit {
	return Visit{PageID: selected.ID, URL: selected.URL, At: now}
}

// Execute opens the page, then records the visit. A failed open leaves the
// page untouched so it stays first in line.
func Execute(ctx context.Context, store PageToucher, opener Opener, v Visit) error {
	if err := opener.Open(ctx, v.URL); err != nil {
		return fmt.Errorf("open %s: %w", v.URL, err)
	}
	at := v.At
	if err := store.UpdatePage(ctx, v.PageID, storage.PageUpdate{LastOpened: &at}); err != nil {
		return fmt.Errorf("record visit of page %d: %w", v.PageID, err)
	}
	return nil
}
