// issue_token emite un JWT firmado con JWT_SECRET para operar la API (admin, bodeguero o auditor).
//
// Uso: go run ./cmd/issue_token -user juan -role bodeguero [-minutes 120]
package main

import (
	"flag"
	"fmt"
	"os"

	httpRouter "github.com/jhoicas/inventory-manager/internal/interfaces/http"
	"github.com/jhoicas/inventory-manager/pkg/config"
	"github.com/jhoicas/inventory-manager/pkg/jwt"
)

func main() {
	user := flag.String("user", "", "identificador del usuario (performed_by de sus movimientos)")
	role := flag.String("role", httpRouter.RoleAuditor, "admin | bodeguero | auditor")
	minutes := flag.Int("minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	switch *role {
	case httpRouter.RoleAdmin, httpRouter.RoleBodeguero, httpRouter.RoleAuditor:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", *role)
		os.Exit(2)
	}
	if *user == "" {
		fmt.Fprintln(os.Stderr, "-user es obligatorio")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if !cfg.JWT.Enabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está configurado")
		os.Exit(1)
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}

	token, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
