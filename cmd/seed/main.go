// seed pobla la base de datos con datos de ejemplo: empresas, un usuario
// administrador (admin@minicrm.com / password), un usuario de empresa y un
// par de empleados. Es idempotente: se salta los registros ya existentes.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/minicrm-api/internal/domain/entity"
	"github.com/jhoicas/minicrm-api/internal/infrastructure/postgres"
	"github.com/jhoicas/minicrm-api/pkg/config"
	"github.com/jhoicas/minicrm-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	now := time.Now().UTC()

	companies := []*entity.Company{
		{Name: "Acme Corporation", Email: "info@acme-corp.com", Website: "https://www.acme-corp.com"},
		{Name: "Global Tech Solutions", Email: "contact@globaltech.com", Website: "https://www.globaltech.com"},
		{Name: "Innovation Labs", Email: "hello@innovationlabs.io", Website: "https://www.innovationlabs.io"},
	}
	for _, c := range companies {
		existing, err := companyRepo.GetByEmail(c.Email)
		if err != nil {
			log.Fatal().Err(err).Str("email", c.Email).Msg("consultar empresa")
		}
		if existing != nil {
			c.ID = existing.ID
			log.Info().Str("name", c.Name).Msg("empresa ya existe, omitida")
			continue
		}
		c.ID = uuid.NewString()
		c.CreatedAt = now
		c.UpdatedAt = now
		if err := companyRepo.Create(c); err != nil {
			log.Fatal().Err(err).Str("name", c.Name).Msg("crear empresa")
		}
		log.Info().Str("name", c.Name).Msg("empresa creada")
	}

	acmeID := companies[0].ID

	seedUser(userRepo, log, &entity.User{
		Name:  "Admin User",
		Email: "admin@minicrm.com",
		Role:  entity.RoleAdmin,
	}, "password", now)
	seedUser(userRepo, log, &entity.User{
		Name:      "Company Manager",
		Email:     "manager@acme-corp.com",
		Role:      entity.RoleCompany,
		CompanyID: &acmeID,
	}, "password", now)

	employees := []*entity.Employee{
		{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "+1-555-123-4567", CompanyID: acmeID},
		{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", Phone: "+1-555-987-6543", CompanyID: acmeID},
	}
	for _, e := range employees {
		existing, err := employeeRepo.GetByEmail(e.Email)
		if err != nil {
			log.Fatal().Err(err).Str("email", e.Email).Msg("consultar empleado")
		}
		if existing != nil {
			log.Info().Str("email", e.Email).Msg("empleado ya existe, omitido")
			continue
		}
		e.ID = uuid.NewString()
		e.CreatedAt = now
		e.UpdatedAt = now
		if err := employeeRepo.Create(e); err != nil {
			log.Fatal().Err(err).Str("email", e.Email).Msg("crear empleado")
		}
		log.Info().Str("email", e.Email).Msg("empleado creado")
	}

	log.Info().Msg("seed completado")
}

func seedUser(repo *postgres.UserRepo, log *logger.Logger, u *entity.User, password string, now time.Time) {
	existing, err := repo.GetByEmail(u.Email)
	if err != nil {
		log.Fatal().Err(err).Str("email", u.Email).Msg("consultar usuario")
	}
	if existing != nil {
		log.Info().Str("email", u.Email).Msg("usuario ya existe, omitido")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de contraseña")
	}
	u.ID = uuid.NewString()
	u.PasswordHash = string(hash)
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := repo.Create(u); err != nil {
		log.Fatal().Err(err).Str("email", u.Email).Msg("crear usuario")
	}
	log.Info().Str("email", u.Email).Str("role", u.Role).Msg("usuario creado")
}
