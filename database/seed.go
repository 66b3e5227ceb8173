package database

import (
	"context"

	"GlobalDent/cache"
	"GlobalDent/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type catalogEntry struct {
	name        string
	description string
	price       string
}

var standardCatalog = []catalogEntry{
	{"Dental Cleaning", "Prophylaxis and plaque removal", "350.00"},
	{"Simple Extraction", "Uncomplicated tooth extraction", "500.00"},
	{"Surgical Extraction", "Surgical tooth extraction", "1200.00"},
	{"Filling (Resin)", "Composite resin restoration", "600.00"},
	{"Filling (Amalgam)", "Amalgam restoration", "450.00"},
	{"Root Canal (Single Root)", "Endodontic treatment of a single-rooted tooth", "2500.00"},
	{"Root Canal (Multi Root)", "Endodontic treatment of a multi-rooted tooth", "3500.00"},
	{"Porcelain Crown", "Fixed porcelain prosthesis", "4500.00"},
	{"Metal-Porcelain Crown", "Fixed metal and porcelain prosthesis", "3800.00"},
	{"Teeth Whitening", "Tooth color lightening", "2800.00"},
	{"Dental Implant", "Titanium implant placement", "4800.00"},
	{"Fixed Bridge (3 Units)", "Three-piece fixed prosthesis", "4900.00"},
	{"Orthodontics (Monthly)", "Monthly orthodontic treatment fee", "1500.00"},
	{"Periapical X-Ray", "Single tooth radiograph", "150.00"},
	{"Panoramic X-Ray", "Full mouth radiograph", "400.00"},
	{"Pit and Fissure Sealant", "Caries prevention on molars", "250.00"},
	{"Fluoride Application", "Preventive fluoride treatment", "200.00"},
	{"General Consultation", "General check-up and diagnosis", "300.00"},
	{"Dental Emergency", "Emergency care", "800.00"},
	{"Dental Curettage", "Deep gum cleaning", "1200.00"},
}

// SeedCatalog creates the standard procedure catalog. Existing entries are left untouched.
// The cached catalog is dropped once the transaction commits.
func SeedCatalog(ctx context.Context, db *gorm.DB, appCache *cache.Cache) (int, error) {
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range standardCatalog {
			procedure := models.Procedure{
				Name:        entry.name,
				Description: entry.description,
				BasePrice:   decimal.RequireFromString(entry.price),
			}
			result := tx.Where(models.Procedure{Name: entry.name}).FirstOrCreate(&procedure)
			if result.Error != nil {
				return result.Error
			}
			created += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to seed procedure catalog")
	}
	if err := invalidateCatalog(ctx, appCache); err != nil {
		return created, err
	}
	log.Info().Int("created", created).Int("catalog_size", len(standardCatalog)).Msg("Procedure catalog seeded")
	return created, nil
}

// ClearData removes all clinical data, children first, leaving operators and roles intact.
// Cached patients and catalog entries go with it.
func ClearData(ctx context.Context, db *gorm.DB, appCache *cache.Cache) error {
	tables := []interface{}{
		&models.Payment{},
		&models.ToothProcedure{},
		&models.Appointment{},
		&models.Consultation{},
		&models.Tooth{},
		&models.ClinicalHistory{},
		&models.Patient{},
		&models.Procedure{},
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to clear data")
	}
	log.Warn().Msg("Clinical data cleared")

	if err := appCache.DeleteAll(ctx, cache.PatientKeyPattern); err != nil {
		return errors.Wrap(err, "failed to clear patient cache")
	}
	return invalidateCatalog(ctx, appCache)
}

func invalidateCatalog(ctx context.Context, appCache *cache.Cache) error {
	if err := appCache.Delete(ctx, cache.ProcedureListKey); err != nil {
		return errors.Wrap(err, "failed to clear catalog cache")
	}
	if err := appCache.DeleteAll(ctx, cache.ProcedureKeyPattern); err != nil {
		return errors.Wrap(err, "failed to clear catalog cache")
	}
	return nil
}
