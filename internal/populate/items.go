package populate

import (
	"context"
	"strconv"

	"thibou/internal/catalog"
	"thibou/internal/services"
	"thibou/internal/transform"
	"thibou/internal/upload"
)

// Image slots shared by every kind with artwork.
const (
	slotFull  = "full"
	slotSmall = "small"
)

// items fetches the source listing of kind and wraps each raw record as an
// upload item. Transforms run lazily inside the driver.
func (p *Populator) items(ctx context.Context, kind catalog.Kind) ([]upload.Item, error) {
	switch kind {
	case catalog.KindVillager:
		raws, err := p.deps.Source.Villagers(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]upload.Item, 0, len(raws))
		for _, raw := range raws {
			items = append(items, upload.Item{
				Name:      raw.Name,
				SourceID:  raw.ID,
				Transform: func() (any, error) { return transform.Villager(raw), nil },
				Images:    []upload.ImageJob{{Slot: slotFull, URL: raw.ImageURL}},
			})
		}
		return items, nil
	case catalog.KindFish:
		raws, err := p.deps.Source.Fish(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]upload.Item, 0, len(raws))
		for _, raw := range raws {
			items = append(items, upload.Item{
				Name:      raw.Name,
				SourceID:  strconv.Itoa(int(raw.Number)),
				Transform: func() (any, error) { return transform.Fish(raw), nil },
				Images: []upload.ImageJob{
					{Slot: slotFull, URL: raw.ImageURL},
					{Slot: slotSmall, URL: raw.RenderURL},
				},
			})
		}
		return items, nil
	case catalog.KindBug:
		raws, err := p.deps.Source.Bugs(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]upload.Item, 0, len(raws))
		for _, raw := range raws {
			items = append(items, upload.Item{
				Name:      raw.Name,
				SourceID:  strconv.Itoa(int(raw.Number)),
				Transform: func() (any, error) { return transform.Bug(raw), nil },
				Images: []upload.ImageJob{
					{Slot: slotFull, URL: raw.ImageURL},
					{Slot: slotSmall, URL: raw.RenderURL},
				},
			})
		}
		return items, nil
	case catalog.KindFossil:
		raws, err := p.deps.Source.Fossils(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]upload.Item, 0, len(raws))
		for _, raw := range raws {
			jobs := make([]upload.ImageJob, 0, len(raw.Fossils))
			for _, part := range raw.Fossils {
				jobs = append(jobs, upload.ImageJob{Slot: transform.PartSlot(part.Name), URL: part.ImageURL})
			}
			items = append(items, upload.Item{
				Name:      raw.Name,
				SourceID:  raw.Name,
				Transform: func() (any, error) { return transform.Fossil(raw), nil },
				Images:    jobs,
			})
		}
		return items, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "populate", "items", "unknown kind "+string(kind), nil)
	}
}
