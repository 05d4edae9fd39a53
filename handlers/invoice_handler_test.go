package handlers

import "testing"

func TestInvoiceCreateReqValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     invoiceCreateReq
		wantErr bool
	}{
		{"complete request", invoiceCreateReq{InvestorName: "Majid", Amount: 50000}, false},
		{"invoice number optional", invoiceCreateReq{InvoiceNumber: "INV-042", InvestorName: "Majid", Amount: 50000}, false},
		{"missing investor name", invoiceCreateReq{Amount: 50000}, true},
		{"zero amount", invoiceCreateReq{InvestorName: "Majid"}, true},
		{"negative amount", invoiceCreateReq{InvestorName: "Majid", Amount: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
