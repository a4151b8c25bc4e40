package client

import "fmt"

const listPrefix = "products:list:"

// ListKey identifies a list query by every parameter that changes its result.
func ListKey(p ListParams) string {
	active := "all"
	if p.Active != nil {
		active = fmt.Sprint(*p.Active)
	}
	return fmt.Sprintf("%spage=%d:per_page=%d:q=%s:active=%s", listPrefix, p.Page, p.PerPage, p.Q, active)
}

func DetailKey(id uint) string { return fmt.Sprintf("products:detail:%d", id) }

func AuditsKey(id uint) string { return fmt.Sprintf("products:audits:%d", id) }
