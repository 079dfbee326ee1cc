package domain

// DefaultSettings is what the portal runs on before an admin saves anything.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:  "AquaManager Pro",
		MainTitle:    "Sua piscina sempre perfeita",
		MainSubtitle: "Calcule seu orçamento mensal em segundos",
		BaseAddress:  "",
		PixKey:       "",
		Pricing: PricingSettings{
			PerKmCents:         150,
			WellWaterFeeCents:  5000,
			ProductsFeeCents:   7500,
			VIPDiscountPercent: 10,
			VolumeTiers: []VolumeTier{
				{UpToLiters: 20000, PriceCents: 15000},
				{UpToLiters: 50000, PriceCents: 25000},
				{UpToLiters: 100000, PriceCents: 40000},
			},
		},
		Plans: PlanSettings{
			Simple: PlanInfo{
				Title: "Plano Simples",
				Benefits: []string{
					"Limpeza semanal",
					"Análise da água",
					"Suporte via WhatsApp",
				},
			},
			VIP: PlanInfo{
				Title: "Plano VIP",
				Benefits: []string{
					"Limpeza semanal",
					"Análise da água",
					"Produtos inclusos",
					"Atendimento prioritário",
				},
			},
		},
		Features: FeatureFlags{
			VIPPlanEnabled:            true,
			StoreEnabled:              true,
			AdvancePaymentPlanEnabled: false,
		},
		Automation: AutomationSettings{
			ReplenishmentStockThreshold: 2,
		},
	}
}

// DefaultRoutes returns the empty Monday-to-Friday schedule.
func DefaultRoutes() map[string]RouteDay {
	routes := make(map[string]RouteDay, len(WeekDays))
	for _, day := range WeekDays {
		routes[day] = RouteDay{Day: day, Active: false}
	}
	return routes
}

// DefaultPoolStatus is the water profile a freshly approved client starts with.
func DefaultPoolStatus() PoolStatus {
	return PoolStatus{PH: 7.2, Chlorine: 1.5, Alkalinity: 100, Usage: PoolUsageFree}
}
