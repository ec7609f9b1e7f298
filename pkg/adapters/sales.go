package adapters

import (
	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/models/store"
)

func MapStoreSalesRecordToDomain(r store.SalesRecord) domain.SalesRecord {
	return domain.SalesRecord{
		Period:       r.Period.UTC(),
		Country:      r.Country,
		Region:       r.Region,
		Channel:      r.Channel,
		Manufacturer: r.Manufacturer,
		Division:     r.Division,
		Brand:        r.Brand,
		Category:     r.Category,
		Segment:      r.Segment,
		Value:        r.Value,
		Volume:       r.Volume,
		Units:        r.Units,
		OwnBrand:     r.OwnBrand,
	}
}

func MapStoreSalesRecordsToDomain(records []store.SalesRecord) []domain.SalesRecord {
	res := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		res = append(res, MapStoreSalesRecordToDomain(r))
	}
	return res
}

func MapDomainSalesRecordToStore(r domain.SalesRecord) store.SalesRecord {
	return store.SalesRecord{
		Period:       r.Period,
		Country:      r.Country,
		Region:       r.Region,
		Channel:      r.Channel,
		Manufacturer: r.Manufacturer,
		Division:     r.Division,
		Brand:        r.Brand,
		Category:     r.Category,
		Segment:      r.Segment,
		Value:        r.Value,
		Volume:       r.Volume,
		Units:        r.Units,
		OwnBrand:     r.OwnBrand,
	}
}
