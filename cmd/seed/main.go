package main

import (
	"fmt"
	"time"

	"lastwill-backend/config"
	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/infrastructure/database"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Development seeder. Creates the schema, the role rows, an admin account,
// a postal code table for the Jakarta area, and a set of approved
// professionals with weekly templates plus client accounts to book them.
func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.Info("Seed starting")

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migrate(db); err != nil {
		logrus.Fatalf("Failed to migrate schema: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedRoles(db); err != nil {
		logrus.Fatalf("Failed to seed roles: %v", err)
	}
	if err := seedPostalCodes(db); err != nil {
		logrus.Fatalf("Failed to seed postal codes: %v", err)
	}
	if err := seedAdmin(db); err != nil {
		logrus.Fatalf("Failed to seed admin: %v", err)
	}
	if err := seedProfessionals(db, 25); err != nil {
		logrus.Fatalf("Failed to seed professionals: %v", err)
	}
	if err := seedClients(db, 100); err != nil {
		logrus.Fatalf("Failed to seed clients: %v", err)
	}

	logrus.Info("Seed complete")
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.ClientProfile{},
		&entity.ProfessionalProfile{},
		&entity.TemplateInterval{},
		&entity.BlockedDate{},
		&entity.PostalCode{},
		&entity.Appointment{},
		&entity.WillRecord{},
		&entity.DeathNotification{},
		&entity.AuditLog{},
	)
}

func seedRoles(db *gorm.DB) error {
	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin, Description: "Platform administrator"},
		{ID: entity.RoleIDProfessional, RoleName: entity.RoleProfessional, Description: "Lawyer or notary"},
		{ID: entity.RoleIDClient, RoleName: entity.RoleClient, Description: "Client booking consultations"},
	}
	for _, role := range roles {
		if err := db.Where(entity.Role{ID: role.ID}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	logrus.Info("Roles seeded")
	return nil
}

// seedPostalCodes loads a coordinate table for the Jakarta area. Codes are
// spread over a grid roughly 1km apart so distance ranking is observable.
func seedPostalCodes(db *gorm.DB) error {
	baseLat, baseLon := -6.2088, 106.8456
	var codes []entity.PostalCode
	for i := 0; i < 100; i++ {
		codes = append(codes, entity.PostalCode{
			Code:      fmt.Sprintf("10%03d", 110+i),
			Latitude:  baseLat + float64(i/10)*0.009,
			Longitude: baseLon + float64(i%10)*0.009,
			City:      "Jakarta",
		})
	}
	if err := db.Save(&codes).Error; err != nil {
		return err
	}
	logrus.Infof("Postal codes seeded: %d", len(codes))
	return nil
}

func seedAdmin(db *gorm.DB) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	active := true
	admin := entity.User{
		ID:       uuid.New(),
		RoleID:   entity.RoleIDAdmin,
		Email:    "admin@lastwill.local",
		Password: string(hashed),
		FullName: "Platform Admin",
		IsActive: &active,
	}
	if err := db.Where(entity.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		return err
	}
	logrus.Info("Admin seeded")
	return nil
}

func seedProfessionals(db *gorm.DB, count int) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	qualifications := []entity.Qualification{
		entity.QualificationLawyer,
		entity.QualificationNotary,
		entity.QualificationBoth,
	}

	var postalCodes []entity.PostalCode
	if err := db.Find(&postalCodes).Error; err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		postal := postalCodes[gofakeit.Number(0, len(postalCodes)-1)]
		homeVisit := gofakeit.Bool()
		homeVisitRadius := 0.0
		if homeVisit {
			homeVisitRadius = float64(gofakeit.Number(5, 30))
		}

		active := true
		user := entity.User{
			ID:       uuid.New(),
			RoleID:   entity.RoleIDProfessional,
			Email:    gofakeit.Email(),
			Password: string(hashed),
			FullName: gofakeit.Name(),
			IsActive: &active,
			ProfessionalProfile: &entity.ProfessionalProfile{
				RegistrationNumber: fmt.Sprintf("REG-%06d", gofakeit.Number(100000, 999999)),
				Qualification:      qualifications[gofakeit.Number(0, len(qualifications)-1)],
				PostalCode:         postal.Code,
				Latitude:           postal.Latitude,
				Longitude:          postal.Longitude,
				OfficeRadiusKm:     float64(gofakeit.Number(3, 25)),
				HomeVisit:          homeVisit,
				HomeVisitRadiusKm:  homeVisitRadius,
				Rating:             float64(gofakeit.Number(30, 50)) / 10,
				ConsultationFee:    decimal.NewFromInt(int64(gofakeit.Number(50, 500)) * 1000),
				ApprovalStatus:     entity.ApprovalApproved,
				Biography:          gofakeit.Sentence(12),
			},
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}

		if err := seedTemplate(db, user.ID); err != nil {
			return err
		}
	}

	logrus.Infof("Professionals seeded: %d", count)
	return nil
}

// seedTemplate gives a professional working hours Monday to Friday with a
// midday break, in 30 or 60 minute slots.
func seedTemplate(db *gorm.DB, professionalID uuid.UUID) error {
	slotMinutes := []int{30, 60}[gofakeit.Number(0, 1)]

	var intervals []entity.TemplateInterval
	for weekday := 1; weekday <= 5; weekday++ {
		intervals = append(intervals,
			entity.TemplateInterval{
				ProfessionalID: professionalID,
				Weekday:        time.Weekday(weekday),
				StartTime:      "09:00",
				EndTime:        "12:00",
				SlotMinutes:    slotMinutes,
			},
			entity.TemplateInterval{
				ProfessionalID: professionalID,
				Weekday:        time.Weekday(weekday),
				StartTime:      "13:00",
				EndTime:        "17:00",
				SlotMinutes:    slotMinutes,
			},
		)
	}
	return db.Create(&intervals).Error
}

func seedClients(db *gorm.DB, count int) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var postalCodes []entity.PostalCode
	if err := db.Find(&postalCodes).Error; err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		postal := postalCodes[gofakeit.Number(0, len(postalCodes)-1)]

		active := true
		user := entity.User{
			ID:       uuid.New(),
			RoleID:   entity.RoleIDClient,
			Email:    gofakeit.Email(),
			Password: string(hashed),
			FullName: gofakeit.Name(),
			IsActive: &active,
			ClientProfile: &entity.ClientProfile{
				PhoneNumber: gofakeit.Phone(),
				PostalCode:  postal.Code,
				Address:     gofakeit.Street(),
				DateOfBirth: gofakeit.DateRange(time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)),
			},
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}

	logrus.Infof("Clients seeded: %d", count)
	return nil
}
