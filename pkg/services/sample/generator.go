// Package sample generates illustrative sell-out data covering every member
// of the dashboard's filter enumerations.
package sample

import (
	"math/rand"
	"time"

	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/models/store"
)

// OwnManufacturer is the manufacturer whose rows are flagged as own brand.
const OwnManufacturer = "Manufacturer 1"

// Base monthly value ranges per manufacturer. Manufacturer 1 leads the
// market, Manufacturer 3 trails it.
var valueRanges = map[string][2]float64{
	"Manufacturer 1": {2000, 6000},
	"Manufacturer 2": {1000, 4000},
	"Manufacturer 3": {200, 2000},
}

type Options struct {
	Years []int
	Seed  int64
}

// Generate returns one row per month, manufacturer, region and channel of
// every requested year. The remaining dimensions are drawn at random.
func Generate(opts Options) []store.SalesRecord {
	rng := rand.New(rand.NewSource(opts.Seed))

	manufacturers := domain.FilterManufacturer.Members()
	regions := domain.FilterRegion.Members()
	channels := domain.FilterChannel.Members()

	records := make([]store.SalesRecord, 0, len(opts.Years)*12*len(manufacturers)*len(regions)*len(channels))
	for _, year := range opts.Years {
		for m := time.January; m <= time.December; m++ {
			period := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
			for _, manufacturer := range manufacturers {
				for _, region := range regions {
					for _, channel := range channels {
						records = append(records, generateRow(rng, period, manufacturer, region, channel))
					}
				}
			}
		}
	}
	return records
}

func generateRow(rng *rand.Rand, period time.Time, manufacturer, region, channel string) store.SalesRecord {
	bounds, ok := valueRanges[manufacturer]
	if !ok {
		bounds = [2]float64{100, 1000}
	}
	value := bounds[0] + rng.Float64()*(bounds[1]-bounds[0])
	price := 8 + rng.Float64()*8
	units := value / price
	return store.SalesRecord{
		Period:       period,
		Country:      pick(rng, domain.FilterCountry),
		Region:       region,
		Channel:      channel,
		Manufacturer: manufacturer,
		Division:     pick(rng, domain.FilterDivision),
		Brand:        pick(rng, domain.FilterBrand),
		Category:     pick(rng, domain.FilterCategory),
		Segment:      pick(rng, domain.FilterSegment),
		Value:        value,
		Volume:       units * (0.5 + rng.Float64()),
		Units:        units,
		OwnBrand:     manufacturer == OwnManufacturer,
	}
}

func pick(rng *rand.Rand, k domain.FilterKey) string {
	members := k.Members()
	return members[rng.Intn(len(members))]
}
