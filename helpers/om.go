package helpers

import "github.com/emirpasic/gods/maps/linkedhashmap"

// OrderedMap keeps keys in insertion order when rendered as JSON.
type OrderedMap struct {
	Map *linkedhashmap.Map
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{
		Map: linkedhashmap.New(),
	}
}

func (sm *OrderedMap) ToJSON() string {
	if sm.Map.Empty() {
		return "{}"
	}
	toJson, _ := sm.Map.ToJSON()
	return string(toJson)
}

// MarshalJSON lets an OrderedMap be embedded in response structs.
func (sm *OrderedMap) MarshalJSON() ([]byte, error) {
	if sm == nil {
		return []byte("{}"), nil
	}
	return []byte(sm.ToJSON()), nil
}

func (sm *OrderedMap) AddPair(key string, value interface{}) *OrderedMap {
	sm.Map.Put(key, value)
	return sm
}

// Pick copies the given keys of doc, in the given order, skipping keys doc
// does not have.
func Pick(doc map[string]interface{}, keys ...string) *OrderedMap {
	om := NewOrderedMap()
	for _, key := range keys {
		if value, ok := doc[key]; ok {
			om.AddPair(key, value)
		}
	}
	return om
}
