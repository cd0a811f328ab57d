package layout

// Cursor 跟踪文档组装过程中的纵向写入位置与页号。
// 由 Build 独占持有一个实例，按指针传入文章排版；不跨并发共享。
// 不变式：y 在同一页内严格递减，breakPage 之后重置为页顶起始值。
type Cursor struct {
	page      int
	y         float64
	top       float64
	collector *pageCollector
}

func newCursor(top float64, collector *pageCollector) *Cursor {
	return &Cursor{y: top, top: top, collector: collector}
}

// Page 返回当前页号（从 0 开始）。
func (c *Cursor) Page() int { return c.page }

// Y 返回当前纵向写入位置（pt，底边为原点）。
func (c *Cursor) Y() float64 { return c.y }

// advance 将写入位置向页底下移 delta。
func (c *Cursor) advance(delta float64) { c.y -= delta }

// needsBreak 在写入位置落到接近页底的阈值之下时返回 true。
func (c *Cursor) needsBreak(threshold float64) bool { return c.y < threshold }

// breakPage 开启新页：页号加一，写入位置回到页顶起始值。
func (c *Cursor) breakPage() {
	c.collector.newPage()
	c.page++
	c.y = c.top
}

// pageAccumulator 按追加顺序收集一页内的绘制元素。
type pageAccumulator struct {
	texts []TextBox
	links []LinkBox
}

func (p *pageAccumulator) appendText(tb TextBox) {
	p.texts = append(p.texts, tb)
}

func (p *pageAccumulator) appendLink(lb LinkBox) {
	p.links = append(p.links, lb)
}

// pageCollector 持有整个文档的页面累积器，页与页的边界即换页指令。
type pageCollector struct {
	width   float64
	height  float64
	margin  Margin
	accs    []*pageAccumulator
	current int
}

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	pc := &pageCollector{
		width:  width,
		height: height,
		margin: margin,
	}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:  pc.width,
			Height: pc.height,
			Margin: pc.margin,
			Texts:  acc.texts,
			Links:  acc.links,
		}
	}
	return out
}
