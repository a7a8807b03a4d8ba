package schema

// IntrospectionQuery is the standard query used to fetch a schema from a
// live endpoint. Type references recurse deep enough for seven wrapping
// levels, which covers any practical combination of list and non-null.
const IntrospectionQuery = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types { ...FullType }
    directives {
      name
      description
      locations
      args { ...InputValue }
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args { ...InputValue }
    type { ...TypeRef }
    isDeprecated
    deprecationReason
  }
  inputFields { ...InputValue }
  interfaces { ...TypeRef }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes { ...TypeRef }
}

fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}`

// Wire shapes of an introspection result.

type introspectionResult struct {
	Schema *introspectionSchema `json:"__schema"`
}

type introspectionSchema struct {
	QueryType        *namedTypeRef            `json:"queryType"`
	MutationType     *namedTypeRef            `json:"mutationType"`
	SubscriptionType *namedTypeRef            `json:"subscriptionType"`
	Types            []introspectionType      `json:"types"`
	Directives       []introspectionDirective `json:"directives"`
}

type namedTypeRef struct {
	Name string `json:"name"`
}

type introspectionType struct {
	Kind           string                    `json:"kind"`
	Name           string                    `json:"name"`
	Description    string                    `json:"description,omitempty"`
	Fields         []introspectionField      `json:"fields,omitempty"`
	InputFields    []introspectionInputValue `json:"inputFields,omitempty"`
	Interfaces     []typeRef                 `json:"interfaces,omitempty"`
	EnumValues     []introspectionEnumValue  `json:"enumValues,omitempty"`
	PossibleTypes  []typeRef                 `json:"possibleTypes,omitempty"`
	SpecifiedByURL *string                   `json:"specifiedByURL,omitempty"`
}

type introspectionField struct {
	Name              string                    `json:"name"`
	Description       string                    `json:"description,omitempty"`
	Args              []introspectionInputValue `json:"args"`
	Type              typeRef                   `json:"type"`
	IsDeprecated      bool                      `json:"isDeprecated"`
	DeprecationReason string                    `json:"deprecationReason,omitempty"`
}

type introspectionInputValue struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Type         typeRef `json:"type"`
	DefaultValue *string `json:"defaultValue"`
}

type introspectionEnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

type introspectionDirective struct {
	Name         string                    `json:"name"`
	Description  string                    `json:"description,omitempty"`
	Locations    []string                  `json:"locations"`
	Args         []introspectionInputValue `json:"args"`
	IsRepeatable bool                      `json:"isRepeatable,omitempty"`
}

type typeRef struct {
	Kind   string   `json:"kind"`
	Name   string   `json:"name,omitempty"`
	OfType *typeRef `json:"ofType,omitempty"`
}
