package models

import "time"

type DocumentCategory string

const (
	DocAadhaar          DocumentCategory = "aadhaar"
	DocPAN              DocumentCategory = "pan"
	DocElectricityBill  DocumentCategory = "electricity_bill"
	DocBankPassbook     DocumentCategory = "bank_passbook"
	DocPropertyDocument DocumentCategory = "property_document"
	DocSitePhoto        DocumentCategory = "site_photo"
	DocAgreement        DocumentCategory = "agreement"
	DocGSTCertificate   DocumentCategory = "gst_certificate"
	DocOther            DocumentCategory = "other"
)

var documentCategories = []string{
	string(DocAadhaar), string(DocPAN), string(DocElectricityBill),
	string(DocBankPassbook), string(DocPropertyDocument), string(DocSitePhoto),
	string(DocAgreement), string(DocGSTCertificate), string(DocOther),
}

func (c DocumentCategory) Valid() bool {
	return indexOf(documentCategories, string(c)) >= 0
}

// Document belongs to exactly one of a customer or a partner.
type Document struct {
	ID          int              `json:"id"`
	CustomerID  *int             `json:"customerId,omitempty"`
	PartnerID   *int             `json:"partnerId,omitempty"`
	Category    DocumentCategory `json:"category"`
	Description *string          `json:"description,omitempty"`
	FileName    string           `json:"fileName"`
	ContentType string           `json:"contentType"`
	SizeBytes   int64            `json:"sizeBytes"`
	ObjectKey   string           `json:"-"`
	IsVerified  bool             `json:"isVerified"`
	VerifiedBy  *int             `json:"verifiedBy,omitempty"`
	VerifiedAt  *time.Time       `json:"verifiedAt,omitempty"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
	UploadedBy  int              `json:"uploadedBy"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// DocumentUpload carries the parsed multipart fields.
type DocumentUpload struct {
	CustomerID  *int
	PartnerID   *int
	Category    DocumentCategory
	Description *string
	ExpiresAt   *time.Time
	FileName    string
	ContentType string
	SizeBytes   int64
}

type DocumentDownload struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
