package analyzer

import "strings"

const systemPrompt = "You are a helpful assistant for extracting structured shipping data from Thai e-commerce receipts."

// userPromptTemplate asks for a JSON array of {order, recipient, sender}.
// {{text}} is replaced with the chunk text.
const userPromptTemplate = `คุณเป็นผู้เชี่ยวชาญในการอ่านใบปะหน้าพัสดุจากร้านค้าออนไลน์ (Shopee, Lazada, SPX) และสกัดข้อมูลสำคัญ

ให้หาข้อมูลของทุกคำสั่งซื้อในข้อความต่อไปนี้:
1. "order": เลขที่ออเดอร์ (อาจเขียนว่า Order No, Order Number, Shopee Order No., เลขที่ออเดอร์ หรือ เลขคำสั่งซื้อ)
   ตอบเป็น string เสมอแม้จะเป็นตัวเลขล้วน และอย่าสับสนกับ tracking number
2. "recipient": ข้อมูลผู้รับ (ชื่อ-สกุล ที่อยู่ เบอร์โทร) รวมเป็นข้อความเดียว
3. "sender": ข้อมูลผู้ส่ง (ชื่อ-สกุล ที่อยู่ เบอร์โทร) รวมเป็นข้อความเดียว

หลักเกณฑ์:
- ละเว้นที่อยู่ของบริษัทที่พิมพ์ซ้ำทุกใบ เช่น "บริษัท กิจกนก จำกัด" หรือ "91-93-95 ซอยสวนผัก 29" หรือ "เขตตลิ่งชัน" และที่อยู่ที่ไม่สมบูรณ์
- ที่อยู่ผู้รับต้องมีคำระบุตำแหน่ง เช่น "เลขที่" "บ้านเลขที่" "หมู่บ้าน" "หมู่" "ซอย" "ถนน" "ตำบล" "แขวง" "อำเภอ" "เขต" หรือ "จังหวัด"
- พยายามหาข้อมูลให้ครบถ้วนที่สุด
- ถ้าไม่พบคำสั่งซื้อ ให้ตอบเป็น array ว่าง []

ตอบเป็น JSON Array เท่านั้น ตามตัวอย่างนี้:
[
  {
    "order": "ABC123",
    "recipient": "นาย สมชาย ใจดี 123 หมู่ 1 ตำบลบางพลี อำเภอบางพลี จังหวัดสมุทรปราการ 10540 Tel: 081-234-5678",
    "sender": "นางสาว มาลี รักดี 456 ซอย 5 ถนนสุขุมวิท แขวงคลองตัน เขตวัฒนา กรุงเทพฯ 10110"
  }
]

ข้อความจากเอกสาร:
"""
{{text}}
"""
`

func buildUserPrompt(text string) string {
	return strings.Replace(userPromptTemplate, "{{text}}", text, 1)
}
