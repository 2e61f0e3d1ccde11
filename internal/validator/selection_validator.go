package validator

import (
	"errors"

	"storefront/internal/domain/model"
)

var (
	// 属性が全部選ばれていない
	ErrIncompleteSelection = errors.New("incomplete attribute selection")

	// 在庫なし
	ErrOutOfStock = errors.New("out of stock")

	// その属性グループに無い値
	ErrUnknownAttribute = errors.New("invalid attribute value")
)

// 全グループに空でない値が入っているか
func IsComplete(state model.SelectionState) bool {
	for _, v := range state {
		if v == "" {
			return false
		}
	}
	return true
}

// 選択が揃っていて、かつ在庫あり
func IsPurchasable(p model.Product, state model.SelectionState) bool {
	return IsComplete(state) && p.InStock
}

// カート追加前のチェック。選択の不足を先に返す。
func ValidateAddToCart(p model.Product, state model.SelectionState) error {
	if !IsComplete(state) {
		return ErrIncompleteSelection
	}
	if !p.InStock {
		return ErrOutOfStock
	}
	return nil
}

// 選択しようとしている値が商品の属性グループに存在するか。空文字（解除）は許す。
func ValidateAttributeChoice(p model.Product, groupID string, value string) error {
	for _, g := range p.Attributes {
		if g.ID != groupID {
			continue
		}
		if value == "" {
			return nil
		}
		for _, it := range g.Items {
			if it.Value == value {
				return nil
			}
		}
		return ErrUnknownAttribute
	}
	return ErrUnknownAttribute
}

// クイック追加用。各グループの先頭の値を選ぶ（値の無いグループは飛ばす）。
func DefaultSelection(p model.Product) model.AttributeSelection {
	sel := model.AttributeSelection{}
	for _, g := range p.Attributes {
		if len(g.Items) > 0 {
			sel[g.ID] = g.Items[0].Value
		}
	}
	return sel
}
