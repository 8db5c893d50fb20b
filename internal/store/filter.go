package store

import (
	"github.com/rpggio/vesselscope/internal/derive"
	"github.com/rpggio/vesselscope/internal/domain/entity"
)

// Filter is the user-controlled part of the state. Selections keep first-seen
// order without duplicates.
type Filter struct {
	DateInterval         entity.DateInterval `json:"date_interval"`
	SelectedVesselIDs    []string            `json:"selected_vessel_ids"`
	SelectedLocationIDs  []string            `json:"selected_location_ids"`
	SelectedCommodityIDs []string            `json:"selected_commodity_ids"`
	FocusVesselID        string              `json:"focus_vessel_id"`
}

func (f Filter) clone() Filter {
	f.SelectedVesselIDs = append([]string{}, f.SelectedVesselIDs...)
	f.SelectedLocationIDs = append([]string{}, f.SelectedLocationIDs...)
	f.SelectedCommodityIDs = append([]string{}, f.SelectedCommodityIDs...)
	return f
}

// seed selects every id of every collection.
func (f *Filter) seed(v derive.Views) {
	f.SelectedVesselIDs = append([]string{}, v.Vessels.IDs...)
	f.SelectedLocationIDs = append([]string{}, v.Locations.IDs...)
	f.SelectedCommodityIDs = append([]string{}, v.Commodities.IDs...)
}

// clamp drops selected ids that are no longer in their collection.
func (f *Filter) clamp(v derive.Views) {
	f.SelectedVesselIDs = keep(f.SelectedVesselIDs, v.Vessels.Has)
	f.SelectedLocationIDs = keep(f.SelectedLocationIDs, v.Locations.Has)
	f.SelectedCommodityIDs = keep(f.SelectedCommodityIDs, v.Commodities.Has)
}

func (f *Filter) selection(kind entity.Kind) (*[]string, error) {
	switch kind {
	case entity.KindVessel:
		return &f.SelectedVesselIDs, nil
	case entity.KindLocation:
		return &f.SelectedLocationIDs, nil
	case entity.KindCommodity:
		return &f.SelectedCommodityIDs, nil
	default:
		return nil, entity.ErrUnknownKind
	}
}

func keep(ids []string, pred func(string) bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if pred(id) {
			out = append(out, id)
		}
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Filter returns a copy of the current filter.
func (s *Store) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.clone()
}

// DateInterval returns the current date window.
func (s *Store) DateInterval() entity.DateInterval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.DateInterval
}

// SetDateInterval replaces the date window. The bounds are not validated.
func (s *Store) SetDateInterval(iv entity.DateInterval) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.DateInterval = iv
}

// Selection returns the selected ids for kind.
func (s *Store) Selection(kind entity.Kind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel, err := s.filter.selection(kind)
	if err != nil {
		return nil, err
	}
	return append([]string{}, (*sel)...), nil
}

// SetSelection replaces the selected ids for kind. Ids are not checked
// against the collection; a later Reload drops the unknown ones.
func (s *Store) SetSelection(kind entity.Kind, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, err := s.filter.selection(kind)
	if err != nil {
		return err
	}
	*sel = dedupe(ids)
	return nil
}

// SetSelectedVesselIDs replaces the vessel selection. See SetSelection.
func (s *Store) SetSelectedVesselIDs(ids []string) {
	_ = s.SetSelection(entity.KindVessel, ids)
}

// SetSelectedLocationIDs replaces the location selection. See SetSelection.
func (s *Store) SetSelectedLocationIDs(ids []string) {
	_ = s.SetSelection(entity.KindLocation, ids)
}

// SetSelectedCommodityIDs replaces the commodity selection. See SetSelection.
func (s *Store) SetSelectedCommodityIDs(ids []string) {
	_ = s.SetSelection(entity.KindCommodity, ids)
}

// FocusVesselID returns the highlighted vessel. It may not exist locally.
func (s *Store) FocusVesselID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.FocusVesselID
}

// SetFocusVesselID changes the highlighted vessel without validation.
func (s *Store) SetFocusVesselID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.FocusVesselID = id
}
