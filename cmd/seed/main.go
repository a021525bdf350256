// seed carga datos de demostración: un admin, un cajero, un cliente y vuelos
// del cajero para los próximos días. Es idempotente por teléfono: si el cajero
// ya existe no vuelve a crear vuelos.
//
// Uso: go run ./cmd/seed [password]
// Lee la conexión de las mismas variables que la API (DB_*, DATABASE_URL).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/application/usecase"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tiquetes-api/pkg/config"
)

type demoUser struct {
	phone, role, series, number, org string
}

var demoUsers = []demoUser{
	{phone: "+70000000001", role: entity.RoleAdmin},
	{phone: "+70000000002", role: entity.RoleCashier, org: "CAJA-01"},
	{phone: "+70000000003", role: entity.RoleClient, series: "4510", number: "123456"},
}

type demoRoute struct {
	number, from, to, plane string
	hour, minutes, seats    int
	price                   int64
}

var demoRoutes = []demoRoute{
	{"SU-100", "Moscú", "San Petersburgo", "A320", 8, 85, 150, 5000},
	{"SU-204", "Moscú", "Kazán", "SSJ-100", 12, 95, 98, 4200},
	{"SU-310", "Kazán", "Sochi", "B737", 17, 180, 160, 7800},
}

func main() {
	password := "demo1234"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migrar: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash de password: %v\n", err)
		os.Exit(1)
	}

	users := postgres.NewUserRepository(pool)
	var cashier *entity.User
	created := 0
	for _, d := range demoUsers {
		u, err := users.GetByPhone(ctx, d.phone)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Buscar %s: %v\n", d.phone, err)
			os.Exit(1)
		}
		if u == nil {
			u = &entity.User{
				ID:                 uuid.New().String(),
				Phone:              d.phone,
				PasswordHash:       string(hash),
				Role:               d.role,
				PassportSeries:     d.series,
				PassportNumber:     d.number,
				OrganizationNumber: d.org,
				CreatedAt:          time.Now(),
			}
			if err := users.Create(ctx, u); err != nil {
				fmt.Fprintf(os.Stderr, "Crear %s: %v\n", d.phone, err)
				os.Exit(1)
			}
			created++
			if d.role == entity.RoleCashier {
				cashier = u
			}
		}
	}
	fmt.Printf("Usuarios: %d nuevos (password %q)\n", created, password)

	if cashier == nil {
		fmt.Println("El cajero demo ya existía; no se crean vuelos")
		return
	}

	flights := usecase.NewFlightUseCase(postgres.NewTxRunner(pool), postgres.NewFlightRepository(pool), users)
	actor := entity.Actor{ID: cashier.ID, Role: cashier.Role}
	today := time.Now().Truncate(24 * time.Hour)
	n := 0
	for day := 1; day <= 3; day++ {
		for _, r := range demoRoutes {
			dep := today.AddDate(0, 0, day).Add(time.Duration(r.hour) * time.Hour)
			_, err := flights.Create(ctx, actor, dto.CreateFlightRequest{
				FlightNumber:  r.number,
				DepartureCity: r.from,
				ArrivalCity:   r.to,
				DepartureTime: dep,
				ArrivalTime:   dep.Add(time.Duration(r.minutes) * time.Minute),
				Price:         decimal.NewFromInt(r.price),
				Seats:         r.seats,
				Airplane:      r.plane,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Crear vuelo %s: %v\n", r.number, err)
				os.Exit(1)
			}
			n++
		}
	}
	fmt.Printf("Vuelos: %d creados para el cajero %s\n", n, cashier.Phone)
}
