package badger

import (
	"encoding/json"
	"time"

	"github.com/ternarybob/advisor/internal/models"
)

// assetRecord is the stored Asset node. Keyed by canonical ticker, which enforces uniqueness.
// Props are kept as JSON so heterogeneous values survive gob encoding.
type assetRecord struct {
	Ticker      string `badgerhold:"key"`
	Name        string
	PropsJSON   []byte
	PropsSource string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// sectorRecord is the stored Sector node. Keyed by the upper-cased sector name.
type sectorRecord struct {
	Key       string `badgerhold:"key"`
	Name      string
	CreatedAt time.Time
}

// membershipRecord is the Asset->Sector relation. Keyed by ticker: one current sector per asset.
type membershipRecord struct {
	Ticker    string `badgerhold:"key"`
	SectorKey string
	LinkedAt  time.Time
}

func (r *assetRecord) props() (map[string]any, error) {
	props := map[string]any{}
	if len(r.PropsJSON) == 0 {
		return props, nil
	}
	if err := json.Unmarshal(r.PropsJSON, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (r *assetRecord) setProps(props map[string]any) error {
	data, err := json.Marshal(props)
	if err != nil {
		return err
	}
	r.PropsJSON = data
	return nil
}

func (r *assetRecord) toModel(sectorName string) (*models.Asset, error) {
	props, err := r.props()
	if err != nil {
		return nil, err
	}
	return &models.Asset{
		Ticker:      r.Ticker,
		Name:        r.Name,
		Sector:      sectorName,
		Props:       props,
		PropsSource: r.PropsSource,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
