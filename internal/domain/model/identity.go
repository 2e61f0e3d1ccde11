package model

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"sort"
)

var ErrInvalidLineKey = errors.New("invalid line key")

// 属性グループID → 選択値
type AttributeSelection map[string]string

// カート明細の識別子（商品ID＋属性の選択）
type LineIdentity struct {
	ProductID  string
	Attributes AttributeSelection
}

// 挿入順に依存しないように、キーはグループIDでソートして作る
type canonicalIdentity struct {
	ProductID string      `json:"p"`
	Pairs     [][2]string `json:"a"`
}

// IdentityOf は明細の識別子を作る。selectionはコピーする（呼び出し側の変更を持ち込まない）。
func IdentityOf(productID string, selection AttributeSelection) LineIdentity {
	attrs := make(AttributeSelection, len(selection))
	for k, v := range selection {
		attrs[k] = v
	}
	return LineIdentity{ProductID: productID, Attributes: attrs}
}

func (id LineIdentity) canonical() canonicalIdentity {
	keys := make([]string, 0, len(id.Attributes))
	for k := range id.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, id.Attributes[k]})
	}
	return canonicalIdentity{ProductID: id.ProductID, Pairs: pairs}
}

// Key はURLに載せられる正規化キー。同じ商品・同じ選択なら必ず同じ値になる。
func (id LineIdentity) Key() string {
	// string と [][2]string のmarshalは失敗しない
	raw, _ := json.Marshal(id.canonical())
	return base64.RawURLEncoding.EncodeToString(raw)
}

func (id LineIdentity) Equal(other LineIdentity) bool {
	if id.ProductID != other.ProductID || len(id.Attributes) != len(other.Attributes) {
		return false
	}
	for k, v := range id.Attributes {
		ov, ok := other.Attributes[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// ParseLineKey は Key の逆変換
func ParseLineKey(key string) (LineIdentity, error) {
	raw, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return LineIdentity{}, ErrInvalidLineKey
	}

	var c canonicalIdentity
	if err := json.Unmarshal(raw, &c); err != nil {
		return LineIdentity{}, ErrInvalidLineKey
	}
	if c.ProductID == "" {
		return LineIdentity{}, ErrInvalidLineKey
	}

	attrs := make(AttributeSelection, len(c.Pairs))
	for _, p := range c.Pairs {
		if _, dup := attrs[p[0]]; dup {
			return LineIdentity{}, ErrInvalidLineKey
		}
		attrs[p[0]] = p[1]
	}
	return LineIdentity{ProductID: c.ProductID, Attributes: attrs}, nil
}
