package descriptor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Postman Collection v2 shapes. Exports from some tools use "items" instead
// of the schema's "item", and URLs appear as either a plain string or an
// object with a "raw" field; both spellings are accepted.

type postmanCollection struct {
	Info struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Schema      string `json:"schema"`
	} `json:"info"`
	Item      []postmanItem `json:"item"`
	Items     []postmanItem `json:"items"`
	Variables []postmanKV   `json:"variable"`
}

type postmanItem struct {
	Name string `json:"name"`

	Item  []postmanItem `json:"item"`
	Items []postmanItem `json:"items"`

	Request *postmanRequest `json:"request"`

	// Flat exports put request fields directly on the item.
	Method  string       `json:"method"`
	URL     *postmanURL  `json:"url"`
	Headers []postmanKV  `json:"headers"`
	Body    *postmanBody `json:"body"`
}

type postmanRequest struct {
	Method string       `json:"method"`
	URL    *postmanURL  `json:"url"`
	Header []postmanKV  `json:"header"`
	Body   *postmanBody `json:"body"`
}

type postmanKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type postmanURL struct {
	Raw string
}

func (u *postmanURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		u.Raw = s
		return nil
	}
	var obj struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	u.Raw = obj.Raw
	return nil
}

type postmanBody struct {
	Raw string
}

func (b *postmanBody) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.Raw = s
		return nil
	}
	var obj struct {
		Mode string `json:"mode"`
		Raw  string `json:"raw"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && (obj.Raw != "" || obj.Mode != "") {
		b.Raw = obj.Raw
		return nil
	}
	// Arbitrary JSON body: keep it verbatim.
	b.Raw = strings.TrimSpace(string(data))
	return nil
}

// children returns the folder contents under either spelling. A nil result
// marks a request leaf; folders (even empty ones) return a non-nil slice.
// This is the single folder/request discriminant used everywhere.
func (it *postmanItem) children() []postmanItem {
	if it.Item != nil {
		return it.Item
	}
	return it.Items
}

func (it *postmanItem) isFolder() bool {
	return it.children() != nil
}

// parsePostman parses a Collection v2 document and flattens its folder
// tree into request-leaf operations in pre-order. Folders expand in place;
// siblings keep document order. IDs encode the tree position ("0", "1-0")
// so a selection survives re-parsing the same document.
func parsePostman(d *Descriptor, sourceText string) {
	var coll postmanCollection
	if err := json.Unmarshal([]byte(sourceText), &coll); err != nil {
		d.Error = fmt.Sprintf("parsing Postman collection: %v", err)
		return
	}

	if coll.Info.Name != "" {
		d.Name = coll.Info.Name
	}
	d.Description = coll.Info.Description

	items := coll.Item
	if items == nil {
		items = coll.Items
	}
	if len(items) == 0 {
		d.Error = "collection has no items"
		return
	}

	flattenPostman(d, items, "")
}

func flattenPostman(d *Descriptor, items []postmanItem, prefix string) {
	for i := range items {
		it := &items[i]
		id := fmt.Sprintf("%s%d", prefix, i)

		if it.isFolder() {
			flattenPostman(d, it.children(), id+"-")
			continue
		}

		d.Operations = append(d.Operations, leafRequest(it, id))
	}
}

func leafRequest(it *postmanItem, id string) *PostmanRequest {
	op := &PostmanRequest{
		ID:   id,
		Name: it.Name,
	}

	method := it.Method
	rawURL := ""
	var kvs []postmanKV
	var body *postmanBody

	if it.Request != nil {
		method = it.Request.Method
		if it.Request.URL != nil {
			rawURL = it.Request.URL.Raw
		}
		kvs = it.Request.Header
		body = it.Request.Body
	} else {
		if it.URL != nil {
			rawURL = it.URL.Raw
		}
		kvs = it.Headers
		body = it.Body
	}

	if method == "" {
		method = "GET"
	}
	op.Method = strings.ToUpper(method)
	op.URL = rawURL
	for _, kv := range kvs {
		op.Headers = append(op.Headers, Header{Key: kv.Key, Value: kv.Value})
	}
	if body != nil {
		op.Body = body.Raw
	}

	return op
}
