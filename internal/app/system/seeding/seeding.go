// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"fmt"

	menustore "github.com/dalemusser/stratarent/internal/app/store/menus"
	pagestore "github.com/dalemusser/stratarent/internal/app/store/pages"
	seosettingsstore "github.com/dalemusser/stratarent/internal/app/store/seosettings"
	servicestore "github.com/dalemusser/stratarent/internal/app/store/services"
	userstore "github.com/dalemusser/stratarent/internal/app/store/users"
	"github.com/dalemusser/stratarent/internal/app/system/authutil"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Options carries the configured bootstrap admin. An empty email skips admin
// seeding.
type Options struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, opts Options, logger *zap.Logger) error {
	if err := seedPages(ctx, db, logger); err != nil {
		return err
	}
	if err := seedSEOSettings(ctx, db, logger); err != nil {
		return err
	}
	if err := seedMenus(ctx, db, logger); err != nil {
		return err
	}
	if err := seedServices(ctx, db, logger); err != nil {
		return err
	}
	return seedAdmin(ctx, db, opts, logger)
}

func seedPages(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := pagestore.New(db)

	defaultPages := []models.Page{
		{
			Slug:  models.PageSlugAbout,
			Title: "About",
			Content: `<h2>About Us</h2>
<p>We rent clean, well-maintained cars at fair prices. This page can be edited by an administrator.</p>`,
		},
		{
			Slug:  models.PageSlugContact,
			Title: "Contact",
			Content: `<h2>Contact Us</h2>
<p>Add your branch phone numbers, email address and opening hours here.</p>`,
		},
		{
			Slug:  models.PageSlugTerms,
			Title: "Rental Terms",
			Content: `<h2>Rental Terms</h2>
<ul>
<li>Driver age and licence requirements</li>
<li>Deposit and payment</li>
<li>Fuel policy</li>
<li>Insurance and damage</li>
<li>Cancellation</li>
</ul>`,
		},
		{
			Slug:  models.PageSlugPrivacy,
			Title: "Privacy Policy",
			Content: `<h2>Privacy Policy</h2>
<p>Describe what booking data is collected, how it is used and how customers can contact you about it.</p>`,
		},
	}

	for _, page := range defaultPages {
		exists, err := store.Exists(ctx, page.Slug)
		if err != nil {
			logger.Error("failed to check if page exists", zap.String("slug", page.Slug), zap.Error(err))
			return err
		}
		if exists {
			continue
		}
		if _, err := store.Upsert(ctx, page); err != nil {
			logger.Error("failed to seed page", zap.String("slug", page.Slug), zap.Error(err))
			return err
		}
		logger.Info("seeded default page", zap.String("slug", page.Slug))
	}
	return nil
}

func seedSEOSettings(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := seosettingsstore.New(db)
	exists, err := store.Exists(ctx)
	if err != nil || exists {
		return err
	}
	if _, err := store.Save(ctx, *models.DefaultSEOSettings()); err != nil {
		logger.Error("failed to seed SEO settings", zap.Error(err))
		return err
	}
	logger.Info("seeded default SEO settings")
	return nil
}

func seedMenus(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := menustore.New(db)
	existing, err := store.List(ctx, "", false)
	if err != nil || len(existing) > 0 {
		return err
	}

	defaults := []menustore.CreateInput{
		{Label: "Home", URL: "/", Order: 0, Placement: models.PlacementHeader},
		{Label: "Cars", URL: "/cars", Order: 1, Placement: models.PlacementHeader},
		{Label: "Blog", URL: "/blog", Order: 2, Placement: models.PlacementBoth},
		{Label: "About", URL: "/about", Order: 3, Placement: models.PlacementBoth},
		{Label: "Contact", URL: "/contact", Order: 4, Placement: models.PlacementBoth},
		{Label: "Rental Terms", URL: "/terms", Order: 5, Placement: models.PlacementFooter},
		{Label: "Privacy", URL: "/privacy", Order: 6, Placement: models.PlacementFooter},
	}
	for _, in := range defaults {
		in.Active = true
		in.Target = models.TargetSelf
		if _, err := store.Create(ctx, in); err != nil {
			logger.Error("failed to seed menu", zap.String("label", in.Label), zap.Error(err))
			return err
		}
	}
	logger.Info("seeded default menus", zap.Int("count", len(defaults)))
	return nil
}

// seedServices adds the standard rental services when the collection is
// empty. Locations are branch specific and left to the admin.
func seedServices(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := servicestore.New(db)
	existing, err := store.List(ctx, false)
	if err != nil || len(existing) > 0 {
		return err
	}

	defaults := []models.Service{
		{Name: "Airport Pickup", Slug: "airport-pickup", Icon: "plane",
			Description: "Collect your car at the arrivals hall."},
		{Name: "Long-Term Rental", Slug: "long-term-rental", Icon: "calendar",
			Description: "Monthly rates for stays of four weeks or more."},
		{Name: "One-Way Rental", Slug: "one-way-rental", Icon: "route",
			Description: "Pick up at one branch and return at another."},
		{Name: "Delivery and Collection", Slug: "delivery-collection", Icon: "truck",
			Description: "We bring the car to your address and pick it up again."},
	}
	for i, svc := range defaults {
		svc.Active = true
		svc.Order = i
		if _, err := store.Create(ctx, svc); err != nil {
			logger.Error("failed to seed service", zap.String("slug", svc.Slug), zap.Error(err))
			return err
		}
	}
	logger.Info("seeded default services", zap.Int("count", len(defaults)))
	return nil
}

// seedAdmin creates the configured admin account when no active admin exists.
func seedAdmin(ctx context.Context, db *mongo.Database, opts Options, logger *zap.Logger) error {
	if opts.AdminEmail == "" {
		return nil
	}
	store := userstore.New(db)
	n, err := store.CountActiveAdmins(ctx)
	if err != nil || n > 0 {
		return err
	}
	if err := authutil.ValidatePassword(opts.AdminPassword); err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}
	hash, err := authutil.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}
	name := opts.AdminName
	if name == "" {
		name = "Administrator"
	}
	u, err := store.Create(ctx, models.User{
		Email:        opts.AdminEmail,
		FullName:     name,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	})
	if err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}
	logger.Info("seeded admin user", zap.String("email", u.Email))
	return nil
}
