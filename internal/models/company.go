package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company represents a transport operator account, the tenant root of the
// marketplace. Routes, vehicles and schedules reference it by CompanyID.
type Company struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName      string             `bson:"companyName" json:"companyName"`
	CompanyType      string             `bson:"companyType" json:"companyType"`
	Country          string             `bson:"country" json:"country"`
	City             string             `bson:"city" json:"city"`
	Address          string             `bson:"address" json:"address"`
	Phone            string             `bson:"phone" json:"phone"`
	Email            string             `bson:"email" json:"email"`
	Password         string             `bson:"password" json:"-"`
	CeoName          string             `bson:"ceoName" json:"ceoName"`
	YearFounded      int                `bson:"yearFounded,omitempty" json:"yearFounded,omitempty"`
	TransportLicense string             `bson:"transportLicense,omitempty" json:"transportLicense,omitempty"`
	Logo             string             `bson:"logo,omitempty" json:"logo,omitempty"`
	IsVerified       bool               `bson:"isVerified" json:"isVerified"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	DefaultCompanyType = "transport"
	DefaultCountry     = "Côte d'Ivoire"
)

// CompanySummary is the sanitized projection returned by register and login.
type CompanySummary struct {
	ID          primitive.ObjectID `json:"id"`
	CompanyName string             `json:"companyName"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	City        string             `json:"city"`
	Logo        string             `json:"logo,omitempty"`
	CompanyType string             `json:"companyType"`
	IsVerified  bool               `json:"isVerified"`
}

// CompanyProfile is the fuller projection returned by the profile endpoint.
type CompanyProfile struct {
	CompanySummary
	Address          string `json:"address,omitempty"`
	CeoName          string `json:"ceoName"`
	YearFounded      int    `json:"yearFounded,omitempty"`
	TransportLicense string `json:"transportLicense,omitempty"`
}

// CompanyContact is the subset embedded into route listings and comparison
// results, mirroring the populated company fields of the public API.
type CompanyContact struct {
	ID          primitive.ObjectID `json:"id"`
	CompanyName string             `json:"companyName"`
	Logo        string             `json:"logo,omitempty"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
}

func (c Company) Summary() CompanySummary {
	return CompanySummary{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Email:       c.Email,
		Phone:       c.Phone,
		City:        c.City,
		Logo:        c.Logo,
		CompanyType: c.CompanyType,
		IsVerified:  c.IsVerified,
	}
}

func (c Company) Profile() CompanyProfile {
	return CompanyProfile{
		CompanySummary:   c.Summary(),
		Address:          c.Address,
		CeoName:          c.CeoName,
		YearFounded:      c.YearFounded,
		TransportLicense: c.TransportLicense,
	}
}

func (c Company) Contact() CompanyContact {
	return CompanyContact{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Logo:        c.Logo,
		Email:       c.Email,
		Phone:       c.Phone,
	}
}
