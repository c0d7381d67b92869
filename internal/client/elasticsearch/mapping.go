package elasticsearch

// buildProductMapping returns the full JSON mapping for a product index.
// Locale-keyed text fields (name, description, slug) are matched by dynamic
// templates so any store locale gets the same field treatment.
func buildProductMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "dynamic_templates": [
      {
        "localized_text": {
          "path_match": ["name.*", "description.*", "short-description.*"],
          "mapping": {
            "type": "text",
            "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } }
          }
        }
      },
      {
        "localized_slug": {
          "path_match": "slug.*",
          "mapping": { "type": "keyword" }
        }
      }
    ],
    "properties": {
      "sylius-id":                { "type": "keyword" },
      "code":                     { "type": "keyword" },
      "enabled":                  { "type": "boolean" },
      "variant-selection-method": { "type": "keyword" },
      "created-at":               { "type": "date" },
      "main-taxon": {
        "properties": {
          "sylius-id": { "type": "keyword" },
          "code":      { "type": "keyword" }
        }
      },
      "taxons": {
        "type": "nested",
        "properties": {
          "sylius-id": { "type": "keyword" },
          "code":      { "type": "keyword" },
          "position":  { "type": "integer" }
        }
      },
      "variants": {
        "type": "nested",
        "properties": {
          "sylius-id": { "type": "keyword" },
          "code":      { "type": "keyword" },
          "enabled":   { "type": "boolean" },
          "position":  { "type": "integer" },
          "price": {
            "properties": {
              "price":          { "type": "long" },
              "original-price": { "type": "long" }
            }
          }
        }
      },
      "attributes": {
        "type": "nested",
        "properties": {
          "sylius-id":  { "type": "keyword" },
          "code":       { "type": "keyword" },
          "filterable": { "type": "boolean" },
          "values": {
            "properties": {
              "code": { "type": "keyword" }
            }
          }
        }
      },
      "translated-attributes": {
        "type": "nested",
        "properties": {
          "sylius-id":  { "type": "keyword" },
          "code":       { "type": "keyword" },
          "filterable": { "type": "boolean" }
        }
      },
      "product-options": {
        "type": "nested",
        "properties": {
          "sylius-id":  { "type": "keyword" },
          "code":       { "type": "keyword" },
          "position":   { "type": "integer" },
          "filterable": { "type": "boolean" },
          "values": {
            "properties": {
              "code":  { "type": "keyword" },
              "value": { "type": "keyword" }
            }
          }
        }
      },
      "images": {
        "properties": {
          "path": { "type": "keyword", "index": false },
          "type": { "type": "keyword" }
        }
      }
    }
  }
}`
}
