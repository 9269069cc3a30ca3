package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/farmaciavallenar/backend/internal/adapters/database"
	"github.com/farmaciavallenar/backend/internal/application/services"
	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/infrastructure/clients/postgres"
	"github.com/farmaciavallenar/backend/pkg/config"
)

// Counter colors: yellow for generics, green for brand bioequivalents,
// blue for the requested product, grey for the rest.
const (
	colorYellow = "\033[93m"
	colorGreen  = "\033[92m"
	colorBlue   = "\033[94m"
	colorGrey   = "\033[90m"
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fmt.Printf("%s--- SISTEMA FARMACÉUTICO VALLENAR (MÓDULO BIOEQUIVALENCIA) ---%s\n", colorBold, colorReset)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	// Service logs would interleave with the table output, so the REPL
	// runs its stack silent.
	logger := zerolog.Nop()
	productRepo := database.NewProductAdapter(pgClient)
	searchService := services.NewSearchService(
		productRepo,
		nil,
		nil,
		services.NewSubstitutionRankingService(logger),
		logger,
	)

	fmt.Printf("%s✓ Sistema cargado.%s\n", colorGreen, colorReset)

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n🔍 Buscador (escribe 'salir'): ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if lowered := strings.ToLower(query); lowered == "salir" || lowered == "exit" {
			break
		}

		result, err := searchService.Search(ctx, query)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("\nProcesando solicitud: %s'%s'%s...\n", colorBold, result.Query, colorReset)
		if len(result.Candidates) == 0 {
			fmt.Printf("❌ No se encontraron productos con el nombre '%s'.\n", result.Query)
			continue
		}
		fmt.Printf("➜ Principio Activo Detectado: %s%s%s\n", colorBold, result.ActiveIngredient, colorReset)

		renderResults(result.Candidates)
	}
}

func renderResults(candidates []entities.RankedCandidate) {
	fmt.Printf("\n%s%-15s | %-40s | %-10s | %-10s | %s%s\n",
		colorBold, "TIPO", "PRODUCTO", "PRECIO", "PPUM", "AHORRO", colorReset)
	fmt.Println(strings.Repeat("-", 95))

	for _, candidate := range candidates {
		product := candidate.Product
		if product == nil {
			continue
		}

		color := colorGrey
		switch candidate.Rank {
		case entities.RankGenericBioequivalent:
			color = colorYellow
		case entities.RankBrandBioequivalent:
			color = colorGreen
		case entities.RankRequested:
			color = colorBlue
		}

		savings := ""
		if candidate.Savings != nil && candidate.Savings.IsPositive() {
			savings = "AHORRA $" + formatAmount(*candidate.Savings, 0)
		}

		name := product.CleanName
		if len(name) > 38 {
			name = name[:38]
		}
		if product.IsBioequivalent {
			name = "🟨 " + name
		}

		ppum := "-"
		if product.PricePerUnit.IsPositive() {
			ppum = "$" + formatAmount(product.PricePerUnit, 1)
		}

		fmt.Printf("%s%-15s | %-40s | %-10s | %-10s | %s%s\n",
			color,
			candidate.Label,
			name,
			"$"+formatAmount(product.Price, 0),
			ppum,
			savings,
			colorReset,
		)
	}

	fmt.Println(strings.Repeat("-", 95))
	fmt.Printf("%s* PPUM: Precio Por Unidad de Medida (Obligatorio ISP)%s\n", colorGrey, colorReset)
}

// formatAmount renders a decimal with comma thousands separators, e.g.
// 15990 -> "15,990".
func formatAmount(value decimal.Decimal, places int32) string {
	text := value.StringFixed(places)
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign = "-"
		text = text[1:]
	}
	whole, fraction := text, ""
	if idx := strings.IndexByte(text, '.'); idx >= 0 {
		whole, fraction = text[:idx], text[idx:]
	}
	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	return sign + grouped.String() + fraction
}
