package catalog

import (
	"encoding/json"
	"strings"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// IDが数値で返るスキーマもあるので両方受ける
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type wireCategory struct {
	ID   flexString `json:"ID"`
	Name string     `json:"Category_Name"`
}

type wireCurrency struct {
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

type wirePrice struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency *wireCurrency    `json:"currency"`
}

type wireImage struct {
	ID  flexString `json:"id"`
	URL string     `json:"url"`
}

type wireAttributeItem struct {
	PrimaryID    flexString `json:"primary_id"`
	ID           flexString `json:"id"`
	DisplayValue string     `json:"display_value"`
	ItemValue    string     `json:"item_value"`
}

type wireAttribute struct {
	ID    flexString          `json:"id"`
	Name  string              `json:"attribute_name"`
	Type  string              `json:"attribute_type"`
	Items []wireAttributeItem `json:"attributes_items"`
}

type wireProduct struct {
	ID          flexString      `json:"id"`
	Name        string          `json:"product_name"`
	InStock     bool            `json:"in_stock"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Gallery     []wireImage     `json:"products_gallery"`
	Attributes  []wireAttribute `json:"products_attributes"`
	Prices      []wirePrice     `json:"product_prices"`
}

func (w wireCategory) toModel() model.Category {
	return model.Category{ID: string(w.ID), Name: w.Name}
}

func (w wireAttribute) toModel() model.AttributeGroup {
	t := model.AttributeTypeText
	if strings.EqualFold(w.Type, string(model.AttributeTypeSwatch)) {
		t = model.AttributeTypeSwatch
	}

	items := make([]model.AttributeItem, 0, len(w.Items))
	for _, it := range w.Items {
		id := string(it.PrimaryID)
		if id == "" {
			id = string(it.ID)
		}
		items = append(items, model.AttributeItem{
			ID:           id,
			DisplayValue: it.DisplayValue,
			Value:        it.ItemValue,
		})
	}

	return model.AttributeGroup{
		ID:    string(w.ID),
		Name:  w.Name,
		Type:  t,
		Items: items,
	}
}

func toAttributeGroups(ws []wireAttribute) []model.AttributeGroup {
	out := make([]model.AttributeGroup, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toModel())
	}
	return out
}

// 欠けている値は 0 / "" / nil に落とす
func (w wireProduct) toModel() model.Product {
	p := model.Product{
		ID:          string(w.ID),
		Name:        w.Name,
		InStock:     w.InStock,
		Description: w.Description,
		Category:    w.Category,
		Brand:       w.Brand,
		Gallery:     make([]model.GalleryImage, 0, len(w.Gallery)),
		Attributes:  toAttributeGroups(w.Attributes),
		Prices:      make([]model.Price, 0, len(w.Prices)),
	}

	for _, g := range w.Gallery {
		p.Gallery = append(p.Gallery, model.GalleryImage{ID: string(g.ID), URL: g.URL})
	}

	for _, pr := range w.Prices {
		price := model.Price{Amount: decimal.Zero}
		if pr.Amount != nil {
			price.Amount = *pr.Amount
		}
		if pr.Currency != nil {
			price.Currency = &model.Currency{Label: pr.Currency.Label, Symbol: pr.Currency.Symbol}
		}
		p.Prices = append(p.Prices, price)
	}

	return p
}

type wireOrderInput struct {
	ID          string  `json:"ID"`
	ProductName string  `json:"Product_name"`
	Quantity    int     `json:"Quantity"`
	Amount      float64 `json:"Amount"`
}

type wireOrderAck struct {
	ID          flexString       `json:"id"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	CreatedAt   flexString       `json:"created_at"`
}
