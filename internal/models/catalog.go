package models

import (
	"encoding/json"
	"time"
)

// RelationCount повторяет форму "_count" из ответов фронтенду.
type RelationCount struct {
	Products int `json:"products"`
}

type Category struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Count       RelationCount `json:"_count"`
}

type Producer struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Email          *string         `json:"email"`
	Phone          *string         `json:"phone"`
	Location       *string         `json:"location"`
	Story          *string         `json:"story"`
	Certifications json.RawMessage `json:"certifications" swaggertype:"array,string"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Count          RelationCount   `json:"_count"`
}

// ProductSummary — товар в карточке производителя.
type ProductSummary struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image *string `json:"image"`
}

// ProducerDetail — производитель со списком его товаров (через происхождение).
type ProducerDetail struct {
	Producer
	Products []ProductSummary `json:"products"`
}

// ProductOrigin — откуда товар. ProducerID ссылается на producers, остальное свободный текст.
type ProductOrigin struct {
	ProducerID     *int            `json:"producerId"`
	Producer       *string         `json:"producer"`
	Location       *string         `json:"location"`
	Distance       *string         `json:"distance"`
	HarvestDate    *string         `json:"harvestDate"`
	Story          *string         `json:"story"`
	Certifications json.RawMessage `json:"certifications" swaggertype:"array,string"`
}

func (o *ProductOrigin) Empty() bool {
	return o == nil || (o.ProducerID == nil && o.Producer == nil && o.Location == nil && o.Distance == nil &&
		o.HarvestDate == nil && o.Story == nil && len(o.Certifications) == 0)
}

type NutritionalInfo struct {
	Portion  *string         `json:"portion"`
	Calories *int            `json:"calories"`
	Carbs    *string         `json:"carbs"`
	Fiber    *string         `json:"fiber"`
	Protein  *string         `json:"protein"`
	Vitamins json.RawMessage `json:"vitamins" swaggertype:"array,string"`
}

func (n *NutritionalInfo) Empty() bool {
	return n == nil || (n.Portion == nil && n.Calories == nil && n.Carbs == nil && n.Fiber == nil &&
		n.Protein == nil && len(n.Vitamins) == 0)
}

// Product.Category — имя категории, как ждёт витрина.
type Product struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           float64          `json:"price"`
	CategoryID      int              `json:"categoryId"`
	Category        string           `json:"category"`
	Image           *string          `json:"image"`
	InStock         bool             `json:"inStock"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	Origin          *ProductOrigin   `json:"origin,omitempty"`
	NutritionalInfo *NutritionalInfo `json:"nutritionalInfo,omitempty"`
}

type ProductPage struct {
	Products   []*Product `json:"products"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

type ProducerPage struct {
	Producers  []*Producer `json:"producers"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}
