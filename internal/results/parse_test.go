package results

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichocore/settler/internal/domain"
)

const samplePage = `jQuery("#loading").hide();
<script>document.getElementById("x").innerHTML = "";</script>
<div id="div_display_09" class="card">
  <h5 class="card-title">Resultado PT RIO 09:20</h5>
  <table id="table_09" class="table">
    <tr><td>1º</td><td><a href="#">1104</a></td><td>01</td><td>Avestruz</td></tr>
    <tr><td>2º</td><td><h5>2217</h5></td><td>05</td><td>Cachorro</td></tr>
    <tr><td>3º</td><td>5630</td><td>08</td><td>Camelo</td></tr>
    <tr><td>4º</td><td>7842</td><td>11</td><td>Cavalo</td></tr>
    <tr><td>5º</td><td>9166</td><td>17</td><td>Macaco</td></tr>
    <tr><td colspan="4">SUPER 5 - acumulado R$ 10.000</td></tr>
    <tr><td>6º</td><td>359</td><td>15</td><td>Jacaré</td></tr>
    <tr><td>6º</td><td>9999</td><td>25</td><td>Vaca</td></tr>
    <tr><td>7º</td><td>0071</td><td>18</td><td>Porco</td></tr>
  </table>
</div>
<div id="div_display_11" class="card">
  <h5 class="card-title">Resultado PT RIO 11h</h5>
  <table id="table_11" class="table">
    <tr><td>1º</td><td>4321</td><td>06</td><td>Cabra</td></tr>
  </table>
</div>
<div id="div_display_14" class="card">
  <h5 class="card-title">Sem tabela</h5>
</div>`

func TestParseDrawBlocks(t *testing.T) {
	blocks := parseDrawBlocks(sanitize(samplePage))
	require.Len(t, blocks, 2)

	assert.Equal(t, "09", blocks[0].SlotID)
	assert.Equal(t, "Resultado PT RIO 09:20", blocks[0].Title)
	assert.Equal(t, "09:20", blocks[0].TimeLabel)

	assert.Equal(t, "11", blocks[1].SlotID)
	assert.Equal(t, "11:00", blocks[1].TimeLabel)
}

func TestParsePrizeRows(t *testing.T) {
	blocks := parseDrawBlocks(sanitize(samplePage))
	require.NotEmpty(t, blocks)
	prizes := parsePrizeRows(blocks[0].TableHTML)
	require.Len(t, prizes, 7)

	assert.Equal(t, 1, prizes[0].Position)
	assert.Equal(t, "1104", prizes[0].Number)
	assert.Equal(t, 1, prizes[0].Group)
	assert.Equal(t, "Avestruz", prizes[0].Animal)

	// 3-digit value is padded to a full thousand.
	assert.Equal(t, "0359", prizes[5].Number)
	assert.Equal(t, 15, prizes[5].Group)

	// Duplicate 6th position kept its first occurrence.
	for _, p := range prizes {
		if p.Position == 6 {
			assert.NotEqual(t, "9999", p.Number)
		}
	}

	assert.Equal(t, 7, prizes[6].Position)
	assert.Equal(t, "0071", prizes[6].Number)
}

func TestNormalize(t *testing.T) {
	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	res, err := Normalize([]byte(samplePage), "ln", date)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, "NACIONAL", res[0].Lottery)
	assert.Equal(t, "BR", res[0].Region)
	assert.Equal(t, "09:20", res[0].TimeLabel)
	assert.True(t, res[0].Complete())
	assert.False(t, res[1].Complete())

	_, err = Normalize([]byte("<html><body>nada</body></html>"), "ln", date)
	assert.ErrorIs(t, err, domain.ErrUpstreamParse)
}

func TestLotteryCodes(t *testing.T) {
	assert.Equal(t, "NACIONAL", LotteryForCode("ln").Name)
	assert.Equal(t, "LOOK", LotteryForCode("LK").Name)
	assert.Equal(t, "XYZ", LotteryForCode("xyz").Name)

	assert.Equal(t, "ln", CodeForLottery("Nacional 21h"))
	assert.Equal(t, "sp", CodeForLottery("PT SP (Band)"))
	assert.Equal(t, "pb", CodeForLottery("LOTEP"))
	assert.Equal(t, "fd", CodeForLottery("fd"))
	assert.Equal(t, "", CodeForLottery("desconhecida"))
}
