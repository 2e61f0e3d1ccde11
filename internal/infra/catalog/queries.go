package catalog

const queryCategories = `query Categories { categories { ID Category_Name } }`

const queryCategoryProducts = `query Category($name: String!) {
  category(category_name: $name) {
    id
    product_name
    in_stock
    products_gallery { url id }
    product_prices { id amount currency { id label symbol } }
  }
}`

const queryProduct = `query Product($id: String!) {
  product(id: $id) {
    id
    product_name
    in_stock
    description
    category
    brand
    products_gallery { url id }
    products_attributes {
      primary_id
      id
      attribute_name
      attribute_type
      attributes_items { primary_id id display_value item_value attribute_id }
    }
    product_prices { amount currency { id label symbol } }
  }
}`

// カート表示用。全商品の属性を取り、呼び出し側で商品IDで絞る。
const queryCartAttributes = `query Category {
  category(category_name: "all") {
    id
    products_attributes {
      id
      attribute_name
      attribute_type
      attributes_items { primary_id id item_value attribute_id display_value }
    }
  }
}`

const mutationOrder = `mutation($input: [CartItemInput!]!) {
  order(input: $input) {
    total_amount
    id
    created_at
  }
}`
