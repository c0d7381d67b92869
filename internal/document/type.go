package document

// Type identifies a document type stored in the search engine. The code
// feeds index and alias naming.
type Type interface {
	Code() string
}

type productType struct{}

func (productType) Code() string { return "product" }

// ProductType is the product document type.
var ProductType Type = productType{}
