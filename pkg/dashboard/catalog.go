package dashboard

// The query/mutation catalog: named operations over the gateway schema.
// Documents are fixed; everything request-specific travels in variables.

// DefaultPageSize is the invoice table page size.
const DefaultPageSize = 6

// latestInvoicesLimit caps the recency widget.
const latestInvoicesLimit = 5

const queryLatestInvoices = `
query fetchLatestInvoices($limit: Int) {
  invoices(limit: $limit, order_by: {date: desc}) {
    id
    amount
    customer {
      name
      email
      image_url
    }
  }
}`

const queryFilteredInvoices = `
query fetchFilteredInvoices(
  $search: String,
  $limit: Int,
  $offset: Int,
  $orderBy: [invoices_customers_order_by!]
) {
  invoices_customers(
    where: {
      _or: [
        {name: {_ilike: $search}},
        {email: {_ilike: $search}},
        {amount: {_ilike: $search}},
        {date: {_ilike: $search}},
        {status: {_ilike: $search}}
      ]
    },
    limit: $limit,
    offset: $offset,
    order_by: $orderBy
  ) {
    id
    amount
    date
    status
    name
    email
    image_url
  }
}`

const queryInvoicesAggregate = `
query fetchInvoicesPages($search: String) {
  invoices_customers_aggregate(
    where: {
      _or: [
        {name: {_ilike: $search}},
        {email: {_ilike: $search}},
        {amount: {_ilike: $search}},
        {date: {_ilike: $search}},
        {status: {_ilike: $search}}
      ]
    }
  ) {
    aggregate {
      count
    }
  }
}`

const queryInvoiceByID = `
query fetchInvoiceById($id: uuid!) {
  invoices_by_pk(id: $id) {
    id
    customer_id
    amount
    status
  }
}`

const queryCustomers = `
query fetchCustomers {
  customers(order_by: {name: asc}) {
    id
    name
  }
}`

const queryFilteredCustomers = `
query fetchFilteredCustomers($search: String) {
  customers(
    where: {
      _or: [
        {name: {_ilike: $search}},
        {email: {_ilike: $search}}
      ]
    },
    order_by: {name: asc}
  ) {
    id
    name
    email
    image_url
    invoices_aggregate {
      aggregate {
        count
      }
    }
    pending: invoices_aggregate(where: {status: {_eq: "pending"}}) {
      aggregate {
        sum {
          amount
        }
      }
    }
    paid: invoices_aggregate(where: {status: {_eq: "paid"}}) {
      aggregate {
        sum {
          amount
        }
      }
    }
  }
}`

const queryInvoiceCount = `
query fetchInvoiceCount {
  invoices_aggregate {
    aggregate {
      count
    }
  }
}`

const queryCustomerCount = `
query fetchCustomerCount {
  customers_aggregate {
    aggregate {
      count
    }
  }
}`

const queryInvoiceStatusTotals = `
query fetchInvoiceStatusTotals {
  paid: invoices_aggregate(where: {status: {_eq: "paid"}}) {
    aggregate {
      sum {
        amount
      }
    }
  }
  pending: invoices_aggregate(where: {status: {_eq: "pending"}}) {
    aggregate {
      sum {
        amount
      }
    }
  }
}`

const queryUserByEmail = `
query fetchUserByEmail($email: String!) {
  users(where: {email: {_eq: $email}}) {
    id
    name
    email
  }
}`

const mutationCreateInvoice = `
mutation createInvoice(
  $customerId: uuid,
  $amountInCents: Int,
  $status: String,
  $date: date
) {
  insert_invoices_one(
    object: {
      customer_id: $customerId,
      amount: $amountInCents,
      status: $status,
      date: $date
    }
  ) {
    id
  }
}`

const mutationUpdateInvoice = `
mutation updateInvoice(
  $id: uuid,
  $customerId: uuid,
  $amountInCents: Int,
  $status: String
) {
  update_invoices(
    where: {id: {_eq: $id}},
    _set: {
      customer_id: $customerId,
      amount: $amountInCents,
      status: $status
    }
  ) {
    affected_rows
  }
}`

const mutationDeleteInvoice = `
mutation deleteInvoice($id: uuid) {
  delete_invoices(where: {id: {_eq: $id}}) {
    affected_rows
  }
}`

// likePattern wraps a search term for case-insensitive substring matching.
func likePattern(search string) string {
	return "%" + search + "%"
}

// pageOffset computes the row offset for a 1-based page number.
func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// totalPages is ceil(count / pageSize).
func totalPages(count, pageSize int) int {
	if count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// filteredInvoicesVars builds the variables for the filtered table query.
func filteredInvoicesVars(search string, page, pageSize int, orderBy OrderBy) map[string]interface{} {
	return map[string]interface{}{
		"search":  likePattern(search),
		"limit":   pageSize,
		"offset":  pageOffset(page, pageSize),
		"orderBy": orderBy.Variable(),
	}
}
