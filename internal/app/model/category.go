package model

// Category clasifica lugares y agrupa los logros.
// Es el único catálogo de categorías: etiquetas y colores salen de acá,
// no de mapas sueltos por pantalla.
type Category string

const (
	CategoryParrilla       Category = "parrilla"
	CategoryPizzeria       Category = "pizzeria"
	CategoryCafeteria      Category = "cafeteria"
	CategoryHeladeria      Category = "heladeria"
	CategoryHamburgueseria Category = "hamburgueseria"
	CategoryPastas         Category = "pastas"
	CategorySushi          Category = "sushi"
	CategoryBodegon        Category = "bodegon"
	CategoryVegetariano    Category = "vegetariano"
	CategoryCerveceria     Category = "cerveceria"
)

type categoryInfo struct {
	Label string
	Color string
}

var categoryCatalog = map[Category]categoryInfo{
	CategoryParrilla:       {Label: "Parrilla", Color: "#B91C1C"},
	CategoryPizzeria:       {Label: "Pizzería", Color: "#EA580C"},
	CategoryCafeteria:      {Label: "Cafetería", Color: "#92400E"},
	CategoryHeladeria:      {Label: "Heladería", Color: "#0EA5E9"},
	CategoryHamburgueseria: {Label: "Hamburguesería", Color: "#D97706"},
	CategoryPastas:         {Label: "Pastas", Color: "#CA8A04"},
	CategorySushi:          {Label: "Sushi", Color: "#0F766E"},
	CategoryBodegon:        {Label: "Bodegón", Color: "#7C3AED"},
	CategoryVegetariano:    {Label: "Vegetariano", Color: "#16A34A"},
	CategoryCerveceria:     {Label: "Cervecería", Color: "#A16207"},
}

// AllCategories devuelve las categorías en orden estable.
func AllCategories() []Category {
	return []Category{
		CategoryParrilla,
		CategoryPizzeria,
		CategoryCafeteria,
		CategoryHeladeria,
		CategoryHamburgueseria,
		CategoryPastas,
		CategorySushi,
		CategoryBodegon,
		CategoryVegetariano,
		CategoryCerveceria,
	}
}

// IsValidCategory indica si la categoría pertenece al catálogo.
func IsValidCategory(c Category) bool {
	_, ok := categoryCatalog[c]
	return ok
}

// Label devuelve la etiqueta visible de la categoría.
func (c Category) Label() string {
	if info, ok := categoryCatalog[c]; ok {
		return info.Label
	}
	return string(c)
}

// Color devuelve el color asociado a la categoría.
func (c Category) Color() string {
	if info, ok := categoryCatalog[c]; ok {
		return info.Color
	}
	return "#6B7280"
}

// PriceRange es la franja de precio por persona de una reseña.
type PriceRange string

const (
	PriceUnder15k PriceRange = "menos_de_15000"
	Price15to30k  PriceRange = "15000_30000"
	Price30to50k  PriceRange = "30000_50000"
	Price50to80k  PriceRange = "50000_80000"
	PriceOver80k  PriceRange = "mas_de_80000"
)

// IsValidPriceRange indica si la franja de precio es conocida.
func IsValidPriceRange(p PriceRange) bool {
	switch p {
	case PriceUnder15k, Price15to30k, Price30to50k, Price50to80k, PriceOver80k:
		return true
	}
	return false
}
